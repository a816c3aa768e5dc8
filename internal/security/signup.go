package security

import (
	"regexp"
	"strings"
)

// User-facing validation messages, kept verbatim from the service this
// backend replaces so existing clients keep rendering them as-is.
const (
	MsgInvalidEmail     = "O e-mail informado é inválido!"
	MsgWeakPassword     = "Senha precisar ter: uma letra maiúscula, uma letra minúscula, um número, uma caractere especial(@#$%) e tamanho entre 6-20."
	MsgPasswordMismatch = "Senhas não conferem."
)

var emailRegex = regexp.MustCompile(`\S+@\S+\.\S+`)

const passwordSymbols = "@#$%"

// ValidateSignup checks the submitted signup credentials and returns the
// accumulated messages, or nil when everything passes. Callers distinguish
// "no errors" by the nil return, never by length.
//
// The confirmation is checked by comparing the confirmation string against
// the bcrypt hash of the original password. Comparing the two plaintexts
// would be the obvious route, but the hash comparison is the behavior the
// previous service shipped with and clients were validated against it, so it
// is kept.
func ValidateSignup(email, password, confirmPassword, passwordHash string) []string {
	var errs []string

	if !emailRegex.MatchString(email) {
		errs = append(errs, MsgInvalidEmail)
	}

	if !strongPassword(password) {
		errs = append(errs, MsgWeakPassword)
	}

	if CheckPassword(passwordHash, confirmPassword) != nil {
		errs = append(errs, MsgPasswordMismatch)
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// strongPassword requires a digit, a lowercase letter, an uppercase letter,
// one of @#$% and a total length of 6 to 20 characters.
func strongPassword(password string) bool {
	if len(password) < 6 || len(password) > 20 {
		return false
	}

	var digit, lower, upper, symbol bool

	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	return digit && lower && upper && symbol
}
