package congregation

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in agorot.
type Money int64

// Shekels converts whole shekels to Money.
func Shekels(n int64) Money {
	return Money(n * 100)
}

// String renders the amount as "₪180.00", with a leading minus for debts.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s₪%d.%02d", sign, v/100, v%100)
}

// ParseMoney reads "180", "180.5" or "₪180.50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "₪"))
	whole, frac, hasFrac := strings.Cut(s, ".")
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	var f int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 || strings.TrimLeft(frac, "0123456789") != "" {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		if f, err = strconv.ParseInt(frac, 10, 64); err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}
	if strings.HasPrefix(whole, "-") {
		return Money(w*100 - f), nil
	}
	return Money(w*100 + f), nil
}
