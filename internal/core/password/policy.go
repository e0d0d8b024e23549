// Package password implements the credential policy engine: validation rules,
// an advisory strength score, temporary-password generation, reset tokens, and
// the bcrypt hasher. It has no dependencies on storage or transport.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	minLength = 12
	maxLength = 128

	specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// forbiddenWords are rejected as case-insensitive substrings. The list mixes
// generic weak passwords with site-specific terms.
var forbiddenWords = []string{
	"password", "password123", "123456789", "qwerty", "admin", "user",
	"dublin", "thomas", "mionnet", "video", "vlog",
}

// Result is the outcome of a policy check. All failed rules are reported
// together rather than short-circuiting on the first.
type Result struct {
	Valid  bool     `json:"is_valid"`
	Errors []string `json:"errors"`
}

// Validate checks pw against every policy rule. Only Validate is binding for
// acceptance; Strength is a separate advisory signal.
func Validate(pw string) Result {
	var errs []string

	if len(pw) < minLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters long", minLength))
	}
	if len(pw) > maxLength {
		errs = append(errs, fmt.Sprintf("password must not exceed %d characters", maxLength))
	}
	if !containsClass(pw, isUpper) {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if !containsClass(pw, isLower) {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if !containsClass(pw, isDigit) {
		errs = append(errs, "password must contain at least one digit")
	}
	if !containsClass(pw, isSpecial) {
		errs = append(errs, "password must contain at least one special character")
	}
	if containsForbiddenWord(pw) {
		errs = append(errs, "password must not contain common words")
	}
	if hasTripleRepeat(pw) {
		errs = append(errs, "password must not contain more than 2 identical consecutive characters")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Strength scores pw from 0 to 100 with feedback for the unmet contributors.
// A password can score low yet still pass Validate; the score is advisory
// only (UI strength meter) and never gates acceptance.
func Strength(pw string) (int, []string) {
	score := 0
	var feedback []string

	switch {
	case len(pw) >= minLength:
		score += 25
	case len(pw) >= 8:
		score += 15
	default:
		feedback = append(feedback, "increase the length")
	}

	if containsClass(pw, isLower) {
		score += 15
	} else {
		feedback = append(feedback, "add lowercase letters")
	}
	if containsClass(pw, isUpper) {
		score += 15
	} else {
		feedback = append(feedback, "add uppercase letters")
	}
	if containsClass(pw, isDigit) {
		score += 15
	} else {
		feedback = append(feedback, "add digits")
	}
	if containsClass(pw, func(b byte) bool { return !isLower(b) && !isUpper(b) && !isDigit(b) }) {
		score += 20
	} else {
		feedback = append(feedback, "add special characters")
	}

	// Longer passwords and character diversity earn small bonuses.
	if len(pw) > 16 {
		score += 3
	}
	if len(pw) > 20 {
		score += 2
	}
	unique := make(map[byte]struct{}, len(pw))
	for i := 0; i < len(pw); i++ {
		unique[pw[i]] = struct{}{}
	}
	switch {
	case len(pw) > 0 && float64(len(unique)) >= float64(len(pw))*0.8:
		score += 10
	case len(pw) > 0 && float64(len(unique)) >= float64(len(pw))*0.6:
		score += 5
	default:
		feedback = append(feedback, "use a wider variety of characters")
	}

	if score > 100 {
		score = 100
	}
	return score, feedback
}

const (
	upperAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlphabet = "abcdefghijklmnopqrstuvwxyz"
	digitAlphabet = "0123456789"
	// Generation uses a reduced symbol set that stays inside specialChars.
	symbolAlphabet = "!@#$%^&*"

	temporaryLength = 16
)

// GenerateTemporary produces a 16-character password containing at least one
// character from each class, shuffled so class guarantees are not inferable
// from position. The candidate is re-checked against Validate and regenerated
// on the (rare) chance it contains a forbidden substring or a triple repeat.
func GenerateTemporary() string {
	for {
		pw := generateCandidate()
		if Validate(pw).Valid {
			return pw
		}
	}
}

func generateCandidate() string {
	combined := upperAlphabet + lowerAlphabet + digitAlphabet + symbolAlphabet

	buf := make([]byte, 0, temporaryLength)
	buf = append(buf,
		upperAlphabet[randIndex(len(upperAlphabet))],
		lowerAlphabet[randIndex(len(lowerAlphabet))],
		digitAlphabet[randIndex(len(digitAlphabet))],
		symbolAlphabet[randIndex(len(symbolAlphabet))],
	)
	for len(buf) < temporaryLength {
		buf = append(buf, combined[randIndex(len(combined))])
	}

	// Fisher-Yates with crypto/rand indices.
	for i := len(buf) - 1; i > 0; i-- {
		j := randIndex(i + 1)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// randIndex returns a uniform random int in [0, n). crypto/rand is the only
// acceptable source here; failure means the platform RNG is broken and there
// is nothing sensible to fall back to.
func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("password: rand failed: %v", err))
	}
	return int(v.Int64())
}

func containsClass(s string, class func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if class(s[i]) {
			return true
		}
	}
	return false
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpecial(b byte) bool {
	return strings.IndexByte(specialChars, b) >= 0
}

func containsForbiddenWord(pw string) bool {
	lower := strings.ToLower(pw)
	for _, w := range forbiddenWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func hasTripleRepeat(pw string) bool {
	for i := 2; i < len(pw); i++ {
		if pw[i] == pw[i-1] && pw[i] == pw[i-2] {
			return true
		}
	}
	return false
}
