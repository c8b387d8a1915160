package extract

import (
	"regexp"
	"strconv"
	"time"
)

// ExtractedDate is a date pulled out of a report filename. All three fields
// are always populated; a filename with no recognizable date yields nil
// instead of a partial value.
type ExtractedDate struct {
	Month string `json:"month"`
	Day   string `json:"day"`
	Year  string `json:"year"`
}

// Filename date encodings, in priority order. Boundaries are checked by
// index rather than consumed by the pattern, so a rejected candidate never
// swallows the character that bounds the next one.
var (
	mdyPattern = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`)
	ymdPattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// ExtractDateFromFilename scans filename for a MM-DD-YYYY or YYYY-MM-DD
// substring, in that order, and returns the first plausible match. Digits
// must be bounded by non-digits or the string edge, so `_12-25-2024_`
// matches inside a longer name but `024-12-25` does not. Month and day are
// kept as the zero-padded two-digit strings found in the name. Returns nil
// when no recognizable date exists; the caller decides the fallback
// (typically the processing date).
func ExtractDateFromFilename(filename string) *ExtractedDate {
	if d := scanDate(filename, mdyPattern, func(a, b, c string) *ExtractedDate {
		return &ExtractedDate{Month: a, Day: b, Year: c}
	}); d != nil {
		return d
	}
	return scanDate(filename, ymdPattern, func(a, b, c string) *ExtractedDate {
		return &ExtractedDate{Year: a, Month: b, Day: c}
	})
}

// scanDate returns the first pattern occurrence that is digit-bounded and
// plausible. Rejected candidates only advance the scan by one character,
// so a bad token directly adjoining a good date does not hide it.
func scanDate(filename string, pattern *regexp.Regexp, build func(a, b, c string) *ExtractedDate) *ExtractedDate {
	for offset := 0; offset < len(filename); {
		idx := pattern.FindStringSubmatchIndex(filename[offset:])
		if idx == nil {
			return nil
		}
		start, end := offset+idx[0], offset+idx[1]
		if digitBounded(filename, start, end) {
			d := build(
				filename[offset+idx[2]:offset+idx[3]],
				filename[offset+idx[4]:offset+idx[5]],
				filename[offset+idx[6]:offset+idx[7]],
			)
			if d.plausible() {
				return d
			}
		}
		offset = start + 1
	}
	return nil
}

func digitBounded(s string, start, end int) bool {
	if start > 0 && isDigit(s[start-1]) {
		return false
	}
	if end < len(s) && isDigit(s[end]) {
		return false
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ExtractDateOrNow resolves the incident date for a filename, falling back
// to now when the name carries no date. Used for temporal ordering of
// parsed records.
func ExtractDateOrNow(filename string, now time.Time) ExtractedDate {
	if d := ExtractDateFromFilename(filename); d != nil {
		return *d
	}
	return ExtractedDate{
		Month: now.Format("01"),
		Day:   now.Format("02"),
		Year:  now.Format("2006"),
	}
}

func (d *ExtractedDate) plausible() bool {
	month, _ := strconv.Atoi(d.Month)
	day, _ := strconv.Atoi(d.Day)
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// Time converts the extracted date to a UTC time at midnight.
func (d ExtractedDate) Time() (time.Time, error) {
	return time.Parse("2006-01-02", d.Year+"-"+d.Month+"-"+d.Day)
}
