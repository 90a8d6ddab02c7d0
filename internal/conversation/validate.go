package conversation

import (
	"regexp"
	"strings"
)

var (
	nonDigitPattern = regexp.MustCompile(`\D`)
	mobilePattern   = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// ValidateName accepts any input whose trimmed length is at least 2.
func ValidateName(input string) bool {
	return len(strings.TrimSpace(input)) >= 2
}

// NormalizePhone strips every non-digit character and truncates to 10 digits.
func NormalizePhone(input string) string {
	digits := nonDigitPattern.ReplaceAllString(input, "")
	if len(digits) > 10 {
		digits = digits[:10]
	}
	return digits
}

// ValidatePhone accepts a 10-digit mobile number starting with 6-9 after
// normalization.
func ValidatePhone(input string) bool {
	return mobilePattern.MatchString(NormalizePhone(input))
}
