package member

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		name    string
		wantErr error
	}{
		{"Alex", nil},
		{"Mary Jane", nil},
		{"", ErrEmptyName},
		{"   ", ErrEmptyName},
		{"Alex99", ErrInvalidName},
		{"Al-ex", ErrInvalidName},
	}
	for _, tc := range cases {
		err := ValidateName(tc.name)
		if tc.wantErr == nil {
			assert.NoError(t, err, tc.name)
		} else {
			assert.True(t, errors.Is(err, tc.wantErr), "ValidateName(%q) = %v", tc.name, err)
		}
	}
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "Mary Jane", FormatName("mARY jANE"))
	assert.Equal(t, "Alex", FormatName("  alex "))
}

func TestNewSelfID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := NewSelfID("Mary Jane", now)
	require.True(t, strings.HasPrefix(id, "mary_jane_"), "id=%q", id)

	// Same name, different instant -> different id.
	other := NewSelfID("Mary Jane", now.Add(time.Millisecond))
	assert.NotEqual(t, id, other)
}

func TestRecordApplyAndHasFix(t *testing.T) {
	lat, lng := 1.0, 2.0
	rec := Record{Name: "A", Lat: &lat, Lng: &lng, Online: true, LastSeen: 10}
	assert.True(t, rec.HasFix())
	assert.False(t, Record{Name: "B"}.HasFix())

	offline := false
	got := rec.Apply(Patch{Online: &offline})
	assert.False(t, got.Online)
	assert.Equal(t, int64(10), got.LastSeen)
	assert.True(t, rec.Online, "Apply must not mutate the receiver")
}
