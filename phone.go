package telguarder

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// PhoneNumber is a validated caller identifier, stored in E.164 format
// (+4712345678). It is immutable once constructed.
type PhoneNumber struct {
	number string
}

var (
	// E.164: + followed by up to 15 digits, no leading zero.
	e164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

	// NANP numbers in the common local spellings: (555) 010-1234, 555-010-1234, 1 555 010 1234.
	nanpRegex = regexp.MustCompile(`^(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})$`)
)

// NewPhoneNumber normalizes a raw phone number string to E.164 and fails with
// an invalid-input error when it cannot be parsed as a dialable number.
// Normalization is idempotent: feeding the E.164 form back yields the same value.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	if strings.TrimSpace(raw) == "" {
		return PhoneNumber{}, NewInvalidInputError("phone number cannot be empty")
	}

	cleaned := stripFormatting(raw)

	if e164Regex.MatchString(cleaned) {
		return PhoneNumber{number: cleaned}, nil
	}

	if m := nanpRegex.FindStringSubmatch(strings.TrimSpace(raw)); len(m) == 4 {
		return PhoneNumber{number: "+1" + m[1] + m[2] + m[3]}, nil
	}

	return PhoneNumber{}, NewInvalidInputError(fmt.Sprintf("invalid phone number format: %q", raw))
}

// NewPhoneNumberE164 accepts only strict E.164 input.
func NewPhoneNumberE164(number string) (PhoneNumber, error) {
	if !e164Regex.MatchString(number) {
		return PhoneNumber{}, NewInvalidInputError(fmt.Sprintf("invalid E.164 format: %q", number))
	}
	return PhoneNumber{number: number}, nil
}

// MustNewPhoneNumber panics on invalid input. For constants and tests.
func MustNewPhoneNumber(raw string) PhoneNumber {
	phone, err := NewPhoneNumber(raw)
	if err != nil {
		panic(err)
	}
	return phone
}

// String returns the number in E.164 format.
func (p PhoneNumber) String() string {
	return p.number
}

// E164 is an alias for String.
func (p PhoneNumber) E164() string {
	return p.number
}

func (p PhoneNumber) IsEmpty() bool {
	return p.number == ""
}

func (p PhoneNumber) Equal(other PhoneNumber) bool {
	return p.number == other.number
}

// CountryCode returns the leading country code digits including the plus sign.
// The split is heuristic for codes longer than one digit.
func (p PhoneNumber) CountryCode() string {
	switch {
	case p.number == "":
		return ""
	case strings.HasPrefix(p.number, "+1"):
		return "+1"
	case strings.HasPrefix(p.number, "+7"):
		return "+7"
	}
	if len(p.number) >= 3 {
		return p.number[:3]
	}
	return ""
}

// NationalNumber returns the digits after the country code.
func (p PhoneNumber) NationalNumber() string {
	cc := p.CountryCode()
	if cc == "" {
		return strings.TrimPrefix(p.number, "+")
	}
	return p.number[len(cc):]
}

func (p PhoneNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.number)
}

func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	phone, err := NewPhoneNumber(raw)
	if err != nil {
		return err
	}
	*p = phone
	return nil
}

// stripFormatting drops everything except digits and a leading plus.
func stripFormatting(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
