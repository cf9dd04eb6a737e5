// Package duration parses and formats the short time expressions used for
// reminder presets and ad-hoc timers, such as "90", "5m" or "3m 30s".
package duration

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidFormat is matched by every error returned from Parse.
var ErrInvalidFormat = errors.New("invalid duration format")

// InvalidFormatError reports the part of an expression that could not be parsed.
type InvalidFormatError struct {
	Input string
	// Token is the offending substring. For empty input it is empty.
	Token string
}

func (e *InvalidFormatError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid duration format %q: empty expression", e.Input)
	}
	return fmt.Sprintf("invalid duration format %q: unexpected %q", e.Input, e.Token)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

var _ error = (*InvalidFormatError)(nil)

const maxSeconds = math.MaxInt64 / int64(time.Second)

// Parse converts an expression made of one or more <digits><unit> tokens into
// a duration. The unit is "m" for minutes, "s" or nothing for seconds. Tokens
// may be separated by whitespace and the whole input must be consumed.
func Parse(text string) (time.Duration, error) {
	if strings.TrimSpace(text) == "" {
		return 0, &InvalidFormatError{Input: text}
	}

	var total int64
	i := 0
	for i < len(text) {
		if isSpace(text[i]) {
			i++
			continue
		}

		start := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == start {
			return 0, &InvalidFormatError{Input: text, Token: badToken(text, start)}
		}

		var n int64
		for _, c := range text[start:i] {
			n = n*10 + int64(c-'0')
			if n > maxSeconds {
				return 0, &InvalidFormatError{Input: text, Token: badToken(text, start)}
			}
		}

		multiplier := int64(1)
		if i < len(text) {
			switch text[i] {
			case 'm':
				multiplier = 60
				i++
			case 's':
				i++
			}
		}
		// A unit must be followed by whitespace, another token, or the end.
		if i < len(text) && !isSpace(text[i]) && !isDigit(text[i]) {
			return 0, &InvalidFormatError{Input: text, Token: badToken(text, start)}
		}

		if n > (maxSeconds-total)/multiplier {
			return 0, &InvalidFormatError{Input: text, Token: text[start:i]}
		}
		total += n * multiplier
	}

	return time.Duration(total) * time.Second, nil
}

// MustParse is like Parse but panics on error. It is meant for built-in presets.
func MustParse(text string) time.Duration {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders d as "<m>m <s>s", "<m>m" or "<s>s". Sub-second remainders are
// dropped and negative durations render as "0s".
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	seconds = seconds % 60
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// badToken returns the run of non-space characters starting at start.
func badToken(text string, start int) string {
	end := start
	for end < len(text) && !isSpace(text[end]) {
		end++
	}
	return text[start:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
