package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount разбирает десятичную строку вида "9.99" в минорные единицы.
// Допускается не более двух знаков после точки — родная точность валюты.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if hasDot && fracPart == "" {
		// "10." не считаем корректной записью.
		return 0, ErrInvalidAmount
	}
	if len(fracPart) > 2 {
		return 0, ErrInvalidAmount
	}

	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseUint(intPart, 10, 63)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	var frac uint64
	if fracPart != "" {
		frac, err = strconv.ParseUint(fracPart, 10, 63)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		if len(fracPart) == 1 {
			frac *= 10
		}
	}

	minor := int64(whole)*100 + int64(frac)
	if neg {
		minor = -minor
	}
	return minor, nil
}

// FormatAmount форматирует минорные единицы обратно в десятичную строку:
// 2999 -> "29.99", -50 -> "-0.50".
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
