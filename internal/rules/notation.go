package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotation reports a rule string that is neither B/S nor survival/birth
// notation.
var ErrNotation = errors.New("rules: invalid rule notation")

// Parse accepts "B3/S23" style strings (case-insensitive, either order, the
// slash optional) as well as the older survival/birth form "23/3".
func Parse(s string) (RuleSet, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return RuleSet{}, fmt.Errorf("%w: empty", ErrNotation)
	}
	upper := strings.ToUpper(raw)
	if strings.ContainsAny(upper, "BS") {
		return parseBS(upper, raw)
	}
	parts := strings.Split(upper, "/")
	if len(parts) != 2 {
		return RuleSet{}, fmt.Errorf("%w: %q", ErrNotation, raw)
	}
	survive, err := parseDigits(parts[0])
	if err != nil {
		return RuleSet{}, fmt.Errorf("%w: %q: %v", ErrNotation, raw, err)
	}
	birth, err := parseDigits(parts[1])
	if err != nil {
		return RuleSet{}, fmt.Errorf("%w: %q: %v", ErrNotation, raw, err)
	}
	return RuleSet{Birth: birth, Survive: survive}, nil
}

func parseBS(upper, raw string) (RuleSet, error) {
	var (
		r          RuleSet
		seenB      bool
		seenS      bool
		section    byte
		digits     strings.Builder
		flushError error
	)
	flush := func() {
		if section == 0 {
			if digits.Len() > 0 {
				flushError = fmt.Errorf("digits before section marker")
			}
			return
		}
		c, err := parseDigits(digits.String())
		if err != nil {
			flushError = err
			return
		}
		if section == 'B' {
			r.Birth = c
		} else {
			r.Survive = c
		}
		digits.Reset()
	}
	for i := 0; i < len(upper); i++ {
		ch := upper[i]
		switch {
		case ch == 'B' || ch == 'S':
			flush()
			if (ch == 'B' && seenB) || (ch == 'S' && seenS) {
				return RuleSet{}, fmt.Errorf("%w: %q: repeated %c", ErrNotation, raw, ch)
			}
			seenB = seenB || ch == 'B'
			seenS = seenS || ch == 'S'
			section = ch
		case ch == '/':
			flush()
			section = 0
		case ch >= '0' && ch <= '9':
			digits.WriteByte(ch)
		default:
			return RuleSet{}, fmt.Errorf("%w: %q: unexpected %q", ErrNotation, raw, ch)
		}
		if flushError != nil {
			return RuleSet{}, fmt.Errorf("%w: %q: %v", ErrNotation, raw, flushError)
		}
	}
	flush()
	if flushError != nil {
		return RuleSet{}, fmt.Errorf("%w: %q: %v", ErrNotation, raw, flushError)
	}
	if !seenB || !seenS {
		return RuleSet{}, fmt.Errorf("%w: %q: need both B and S", ErrNotation, raw)
	}
	return r, nil
}

func parseDigits(s string) (Counts, error) {
	var c Counts
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("unexpected %q", ch)
		}
		n := int(ch - '0')
		if n > MaxNeighbors {
			return 0, fmt.Errorf("%w: %d", ErrCount, n)
		}
		c |= 1 << n
	}
	return c, nil
}
