package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
)

const dateLayout = "02/01/2006"

var emailRegex = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ParseDate parses a dd/mm/yyyy calendar date. The result is normalized to
// midnight UTC so interval comparisons are pure date arithmetic.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, apperr.BadRequest("Date must be in the format dd/mm/yyyy.")
	}
	return parsed, nil
}

func FormatDate(date time.Time) string {
	return date.Format(dateLayout)
}

// Age returns whole years completed at now, adjusted by month and day.
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	monthsDiff := int(now.Month()) - int(birth.Month())
	if monthsDiff < 0 || (monthsDiff == 0 && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// ValidCPF checks the two verifier digits of a Brazilian CPF. Punctuation
// (dots and dash) is tolerated; repeated-digit sequences are rejected.
func ValidCPF(cpf string) bool {
	cleaned := strings.NewReplacer(".", "", "-", "").Replace(cpf)
	if len(cleaned) != 11 {
		return false
	}

	digits := make([]int, 11)
	allEqual := true
	for i, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
		if digits[i] != digits[0] {
			allEqual = false
		}
	}
	if allEqual {
		return false
	}

	return cpfDigit(digits, 9) == digits[9] && cpfDigit(digits, 10) == digits[10]
}

// cpfDigit computes the verifier digit over the first n positions, with
// weights descending from n+1 to 2.
func cpfDigit(digits []int, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += digits[i] * (n + 1 - i)
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// ValidCarYear enforces the catalog's manufacture-year window, exclusive on
// both ends (1951..2022 pass).
func ValidCarYear(year int) bool {
	return year > 1950 && year < 2023
}
