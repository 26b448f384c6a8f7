package member

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

// Room code alphabet. Ambiguous glyphs (0/O, 1/I) are excluded from
// generation so codes survive being read out loud, but validation accepts
// the full uppercase alphanumeric range.
const (
	codeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeDigits  = "23456789"

	CodeLength = 6
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateCode returns a fresh 6-character room code: four letters and two
// digits, shuffled.
func GenerateCode() (string, error) {
	code := make([]byte, 0, CodeLength)
	for i := 0; i < 4; i++ {
		c, err := randByte(codeLetters)
		if err != nil {
			return "", err
		}
		code = append(code, c)
	}
	for i := 0; i < 2; i++ {
		c, err := randByte(codeDigits)
		if err != nil {
			return "", err
		}
		code = append(code, c)
	}
	for i := len(code) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		code[i], code[j.Int64()] = code[j.Int64()], code[i]
	}
	return string(code), nil
}

func randByte(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// ValidCode reports whether s is an acceptable room code.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
