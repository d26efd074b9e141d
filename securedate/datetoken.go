package securedate

import (
	"fmt"
	"time"
)

const dateLayout = "20060102"

// DateToken is a calendar date serialized as YYYYMMDD.
type DateToken string

// NewDateToken formats t as a DateToken in loc. A nil loc means time.Local.
func NewDateToken(t time.Time, loc *time.Location) DateToken {
	if loc == nil {
		loc = time.Local
	}
	return DateToken(t.In(loc).Format(dateLayout))
}

// String returns the YYYYMMDD form.
func (d DateToken) String() string {
	return string(d)
}

// ParseDateToken parses an 8 digit YYYYMMDD string as midnight in loc.
func ParseDateToken(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if len(s) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("date token must be %d characters, got %d", len(dateLayout), len(s))
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("date token must be decimal: %q", s)
		}
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date token: %w", err)
	}
	return t, nil
}

// OffsetDate returns the DateToken days calendar days away from t in loc.
// Noon is used as the anchor so that DST transitions never skip or repeat a day.
func OffsetDate(t time.Time, loc *time.Location, days int) DateToken {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return NewDateToken(time.Date(y, m, d+days, 12, 0, 0, 0, loc), loc)
}

// DaysBetween returns the number of whole calendar days from a to b, each
// taken in its own location. Sub-day precision is ignored.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// CandidateWindow returns the dates a verifier tries, in order: today, then
// yesterday and tomorrow, then two days back and forward, up to skewDays.
func CandidateWindow(now time.Time, loc *time.Location, skewDays int) []DateToken {
	if skewDays < 0 {
		skewDays = 0
	}
	out := make([]DateToken, 0, 2*skewDays+1)
	out = append(out, OffsetDate(now, loc, 0))
	for i := 1; i <= skewDays; i++ {
		out = append(out, OffsetDate(now, loc, -i), OffsetDate(now, loc, i))
	}
	return out
}
