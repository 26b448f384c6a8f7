package member

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyName   = errors.New("name is empty")
	ErrInvalidName = errors.New("name may only contain letters and spaces")
)

var namePattern = regexp.MustCompile(`^[a-zA-Z ]+$`)

// ValidateName checks a display name before a session starts.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// FormatName title-cases each word of a display name.
func FormatName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// NewSelfID derives a member id from the display name plus a base36
// timestamp. Ids only need to be unique within a room, and the name prefix
// keeps them readable in the backend.
func NewSelfID(name string, now time.Time) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "_"))
	return slug + "_" + strconv.FormatInt(now.UnixMilli(), 36)
}
