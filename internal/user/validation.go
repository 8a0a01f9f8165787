package user

import (
	"errors"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// Validation tags registered with gin's validator.
const (
	phoneTag          = "phone"
	strongPasswordTag = "strongpassword"
)

// ErrInvalidPhoneNumber is returned by PhoneRule.Normalize.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// PhoneRule validates phone numbers against libphonenumber metadata.
type PhoneRule struct {
	// Region is the ISO 3166-1 alpha-2 region assumed for numbers without a '+' prefix.
	Region string
}

// Normalize returns raw in E.164 form when it is a valid number.
func (r PhoneRule) Normalize(raw string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), r.Region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhoneNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// StrongPassword requires at least eight characters with an upper-case letter,
// a lower-case letter, a digit and a symbol.
func StrongPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, c := range pw {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// RegisterValidators installs the phone and strongpassword tags on gin's binding engine.
func RegisterValidators(rule PhoneRule) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	if err := v.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		_, err := rule.Normalize(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation(strongPasswordTag, func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
}
