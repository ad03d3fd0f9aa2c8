package validator

import (
	"fmt"
	"net"
	"net/mail"
	"regexp"
	"slices"
	"strings"
)

var (
	// E.164: optional plus, then up to 15 digits not starting with zero.
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	// 24-hour wall clock, HH:MM.
	timeOfDayRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Required checks that a string is non-blank.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{Field: field, Message: "is required"},
	}
}

// RequiredSlice checks that a slice has at least one element.
func RequiredSlice[T any](field string, value []T) Rule {
	return Rule{
		Check: func() bool {
			return len(value) > 0
		},
		Error: ValidationError{Field: field, Message: "is required"},
	}
}

// MinLen checks a minimum string length in bytes.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) >= min
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)},
	}
}

// MaxLen checks a maximum string length in bytes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)},
	}
}

// OneOf checks membership in a closed set of allowed values.
func OneOf(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))},
	}
}

// ValidEmail checks RFC 5322 address syntax plus the dotted-domain shape
// expected from real accounts.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}
			if !strings.Contains(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// ValidPhone checks an international phone number in E.164 form. Spaces and
// dashes are stripped before matching.
func ValidPhone(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			cleaned := strings.ReplaceAll(strings.ReplaceAll(value, " ", ""), "-", "")
			if len(cleaned) < 7 {
				return false
			}
			return phoneRegex.MatchString(cleaned)
		},
		Error: ValidationError{Field: field, Message: "must be a valid phone number in international format"},
	}
}

// ValidCIDR checks an IP range in CIDR notation.
func ValidCIDR(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			_, _, err := net.ParseCIDR(value)
			return err == nil
		},
		Error: ValidationError{Field: field, Message: "must be a valid CIDR range"},
	}
}

// ValidTimeOfDay checks a 24-hour HH:MM wall-clock value.
func ValidTimeOfDay(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return timeOfDayRegex.MatchString(value)
		},
		Error: ValidationError{Field: field, Message: "must be a time in HH:MM format"},
	}
}
