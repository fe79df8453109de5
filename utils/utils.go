package utils

import (
	"math/rand"
	"strings"
	"unicode/utf8"
)

// UserAgent identifies all outbound fetches (feed scraping, page title
// extraction).
const UserAgent = "StudioBot/1.0 (+https://automuse.dev)"

// HTTP error codes returned in JSON failure bodies.
const (
	ErrorTokenAuthFail = 401001
	ErrorNotAdmin      = 403001
	ErrorInvalidInput  = 400001
	ErrorNotFound      = 404001
	ErrorInternal      = 500001
)

// ContainsString returns true iff the provided string slice hay contains
// string needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomAlphabetString generates a random lowercase string of length n.
func RandomAlphabetString(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return sb.String()
}

// TruncateString cuts s down to at most maxRunes runes, appending an
// ellipsis when something was cut. Rune-aware so multi-byte input never gets
// split mid-character.
func TruncateString(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}
