package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffKeys(t *testing.T) {
	cases := []struct {
		name     string
		old, new []string
		want     Diff
	}{
		{
			name: "disjoint",
			old:  []string{"a"},
			new:  []string{"b"},
			want: Diff{Added: []string{"b"}, Removed: []string{"a"}},
		},
		{
			name: "identical is all updates",
			old:  []string{"a", "b"},
			new:  []string{"a", "b"},
			want: Diff{Updated: []string{"a", "b"}},
		},
		{
			name: "mixed",
			old:  []string{"a", "b", "c"},
			new:  []string{"b", "c", "d"},
			want: Diff{Added: []string{"d"}, Updated: []string{"b", "c"}, Removed: []string{"a"}},
		},
		{
			name: "empty old",
			new:  []string{"a"},
			want: Diff{Added: []string{"a"}},
		},
		{
			name: "empty new",
			old:  []string{"a"},
			want: Diff{Removed: []string{"a"}},
		},
		{
			name: "both empty",
			want: Diff{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DiffKeys(tc.old, tc.new)
			assert.Equal(t, tc.want.Added, got.Added)
			assert.Equal(t, tc.want.Updated, got.Updated)
			assert.Equal(t, tc.want.Removed, got.Removed)
		})
	}
}
