package forms

import "unicode"

// PasswordChecks are the individual strength criteria shown under the
// password field.
type PasswordChecks struct {
	Length    bool // at least 8 characters
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
}

// CheckPassword evaluates pw against each criterion.
func CheckPassword(pw string) PasswordChecks {
	var c PasswordChecks
	n := 0
	for _, r := range pw {
		n++
		switch {
		case unicode.IsUpper(r):
			c.Uppercase = true
		case unicode.IsLower(r):
			c.Lowercase = true
		case unicode.IsDigit(r):
			c.Number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			c.Special = true
		}
	}
	c.Length = n >= 8
	return c
}

// Strength is the number of criteria met, 0 to 5.
func (c PasswordChecks) Strength() int {
	n := 0
	for _, ok := range []bool{c.Length, c.Uppercase, c.Lowercase, c.Number, c.Special} {
		if ok {
			n++
		}
	}
	return n
}

// Label is Weak, Medium or Strong.
func (c PasswordChecks) Label() string {
	switch s := c.Strength(); {
	case s <= 2:
		return "Weak"
	case s <= 3:
		return "Medium"
	default:
		return "Strong"
	}
}
