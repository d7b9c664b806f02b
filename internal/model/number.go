package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric field that tolerates loose input. It decodes from JSON
// numbers, numeric strings, empty strings and null; anything unparseable
// becomes 0.
type Number float64

// ParseNumber parses the leading decimal number in s. Empty or invalid input
// yields 0.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if !strings.ContainsAny(s, "xX_") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return finite(f)
		}
	}
	// Fall back to the longest numeric prefix, so "12kg" reads as 12.
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
scan:
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case (c == '+' || c == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}

// Float returns n as a float64, mapping non-finite values to 0.
func (n Number) Float() float64 {
	return float64(finite(float64(n)))
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Float())
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*n = 0
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = ParseNumber(s)
	case bytes.Equal(data, []byte("true")):
		*n = 1
	case bytes.Equal(data, []byte("false")):
		*n = 0
	default:
		*n = ParseNumber(string(data))
	}
	return nil
}
