package api

import (
	"fmt"
	"strconv"
	"strings"
)

// ToCents converts a decimal dollar string to integer cents by deleting the
// first decimal separator and parsing the leading run of digits base-10.
//
// This is string surgery, not arithmetic scaling, and the difference is part
// of the wire contract: "50.42" -> 5042, but "3.5" -> 35 (not 350) and
// "1.234" -> 1234. Anything after the leading digits is ignored, so a second
// separator truncates the value ("50.4.2" -> 504). An empty or digit-free
// input fails with ErrInvalidPrice.
func ToCents(price string) (int, error) {
	s := strings.Replace(price, ".", "", 1)

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}
	if neg {
		n = -n
	}

	return n, nil
}

// FloatToCents coerces f through its shortest decimal form and applies
// ToCents, so 50.42 -> 5042 and 3.5 -> 35.
func FloatToCents(f float64) (int, error) {
	return ToCents(strconv.FormatFloat(f, 'f', -1, 64))
}
