package normalize

import (
	"strings"
	"time"
)

// DateLayout is the day-first format used by the portal. Day and month may
// be given with or without a leading zero.
const DateLayout = "2.1.2006"

// payeeSeparator splits "<payee>//<rest>" in purpose texts.
const payeeSeparator = "//"

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, &DateParseError{Value: s, Err: err}
	}

	return d, nil
}

// truncate keeps at most n characters of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}

	return s
}

// payeeFromMemo returns the text before the first "//" or "" when the memo
// has none.
func payeeFromMemo(memo string) string {
	before, _, found := strings.Cut(memo, payeeSeparator)
	if !found {
		return ""
	}

	return before
}
