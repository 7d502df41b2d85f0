package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount in cents.
type Money struct {
	Cents int64
}

// ParseMoney converts a decimal string to cents. Dot and comma are both
// accepted as the decimal separator; the third decimal rounds half-up.
// Signs are rejected. Zero parses fine and is left to the caller to refuse.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		// "." alone
		return Money{}, ErrInvalidAmount
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return Money{}, ErrInvalidAmount
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if iv > (math.MaxInt64-99)/100 {
		return Money{}, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return Money{Cents: iv*100 + frac}, nil
}

// isDigits reports whether s holds only ASCII digits.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (m Money) IsZero() bool { return m.Cents == 0 }

// String renders "1,500.50".
func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(c/100), c%100)
}

// Format prefixes the currency symbol.
func (m Money) Format(currency string) string {
	return currency + m.String()
}

// Float returns the amount as a float for charts; do arithmetic in cents.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100
}

// Input renders the amount the way a user would type it back ("1500.50").
func (m Money) Input() string {
	if m.Cents%100 == 0 {
		return strconv.FormatInt(m.Cents/100, 10)
	}
	return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)
}
