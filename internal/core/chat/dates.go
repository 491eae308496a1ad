package chat

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Date is a civil calendar date with no time of day or zone attached
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates y/m/d by round-tripping through time.Date;
// 31 de febrero normalizes to a different day and is rejected
func NewDate(y int, m time.Month, d int) (Date, bool) {
	if y < 1 || m < time.January || m > time.December || d < 1 || d > 31 {
		return Date{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != m || t.Day() != d {
		return Date{}, false
	}
	return Date{Year: y, Month: m, Day: d}, true
}

// DateOf returns the civil date of t in its own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n calendar days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight(time.UTC).AddDate(0, 0, n))
}

// After reports whether d is a later calendar day than o
func (d Date) After(o Date) bool {
	if d.Year != o.Year {
		return d.Year > o.Year
	}
	if d.Month != o.Month {
		return d.Month > o.Month
	}
	return d.Day > o.Day
}

// Weekday returns the day of week of d
func (d Date) Weekday() time.Weekday {
	return d.midnight(time.UTC).Weekday()
}

// BoundsIn returns the UTC instants bounding d in loc, half-open [from, to)
func (d Date) BoundsIn(loc *time.Location) (time.Time, time.Time) {
	from := d.midnight(loc)
	return from.UTC(), from.AddDate(0, 0, 1).UTC()
}

// Spanish renders d the way the agenda speaks: "15 de enero de 2024"
func (d Date) Spanish() string {
	return fmt.Sprintf("%d de %s de %d", d.Day, monthNames[d.Month], d.Year)
}

var monthNames = map[time.Month]string{
	time.January: "enero", time.February: "febrero", time.March: "marzo",
	time.April: "abril", time.May: "mayo", time.June: "junio",
	time.July: "julio", time.August: "agosto", time.September: "septiembre",
	time.October: "octubre", time.November: "noviembre", time.December: "diciembre",
}

// months maps folded Spanish month names and their short forms to months
var months = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
	"ene": time.January, "feb": time.February, "mar": time.March,
	"abr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dic": time.December,
}

// DateRange is an inclusive span of civil days with a display label
type DateRange struct {
	From  Date
	To    Date
	Label string
}

// BoundsIn returns the UTC instants bounding the range in loc, half-open [from, to)
func (r DateRange) BoundsIn(loc *time.Location) (time.Time, time.Time) {
	from := r.From.midnight(loc)
	to := r.To.midnight(loc).AddDate(0, 0, 1)
	return from.UTC(), to.UTC()
}

// Exact date grammar. Patterns are tried in a fixed order; an expression that
// matches a pattern but names an impossible calendar day falls through to the
// next pattern, and to a not-understood reply when none parses.
//
// The bare dd/mm pattern must not fire inside a longer dd/mm/yyyy or ISO
// expression; Go regexes have no lookahead, so the tail is captured as an
// optional group and a non-empty tail disqualifies the match
var (
	reDayMonthYear = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	reDayMonth     = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})(?:[/-](\d+))?`)
	reISO          = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	reDayOfMonth   = regexp.MustCompile(`(\d{1,2})\s+de\s+([a-z]+)(?:\s+de\s+(\d{4}))?`)
	reMonthDay     = regexp.MustCompile(`([a-z]+)\s+(\d{1,2}),?\s*(\d{4})?`)
)

// HasExactDate reports whether the folded message contains something shaped
// like an exact date. The month-name grammars only count when the word is a
// real Spanish month, otherwise any "word number" phrase would read as a date
func HasExactDate(msg string) bool {
	if reDayMonthYear.MatchString(msg) || reISO.MatchString(msg) {
		return true
	}
	if m := reDayMonth.FindStringSubmatch(msg); m != nil && m[3] == "" {
		return true
	}
	if m := reDayOfMonth.FindStringSubmatch(msg); m != nil {
		if _, ok := months[m[2]]; ok {
			return true
		}
	}
	if m := reMonthDay.FindStringSubmatch(msg); m != nil {
		if _, ok := months[m[1]]; ok {
			return true
		}
	}
	return false
}

// ExtractDate parses the first exact date in the folded message.
// Patterns missing a year borrow it from today
func ExtractDate(msg string, today Date) (Date, bool) {
	// dd/mm/yyyy or dd-mm-yyyy
	if m := reDayMonthYear.FindStringSubmatch(msg); m != nil {
		if d, ok := numericDate(m[3], m[2], m[1]); ok {
			return d, true
		}
	}

	// dd/mm or dd-mm, current year
	if m := reDayMonth.FindStringSubmatch(msg); m != nil && m[3] == "" {
		if d, ok := numericDate(strconv.Itoa(today.Year), m[2], m[1]); ok {
			return d, true
		}
	}

	// yyyy-mm-dd
	if m := reISO.FindStringSubmatch(msg); m != nil {
		if d, ok := numericDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}

	// dd de <mes> [de yyyy]
	if m := reDayOfMonth.FindStringSubmatch(msg); m != nil {
		if d, ok := namedMonthDate(m[2], m[1], m[3], today.Year); ok {
			return d, true
		}
	}

	// <mes> dd[, yyyy]
	if m := reMonthDay.FindStringSubmatch(msg); m != nil {
		if d, ok := namedMonthDate(m[1], m[2], m[3], today.Year); ok {
			return d, true
		}
	}

	return Date{}, false
}

func numericDate(year, month, day string) (Date, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return NewDate(y, time.Month(m), d)
}

func namedMonthDate(month, day, year string, fallbackYear int) (Date, bool) {
	mon, ok := months[month]
	if !ok {
		return Date{}, false
	}
	d, _ := strconv.Atoi(day)
	y := fallbackYear
	if year != "" {
		y, _ = strconv.Atoi(year)
	}
	return NewDate(y, mon, d)
}

// Relative period vocabulary. Each period carries the folded phrases that
// trigger it and how to build the range from today; periods are tried in
// order and the first phrase hit wins
type relPeriod struct {
	phrases []string
	build   func(today Date) DateRange
}

var relPeriods = []relPeriod{
	{
		phrases: []string{"hoy"},
		build:   func(t Date) DateRange { return DateRange{From: t, To: t, Label: "hoy"} },
	},
	{
		phrases: []string{"manana"},
		build: func(t Date) DateRange {
			d := t.AddDays(1)
			return DateRange{From: d, To: d, Label: "mañana"}
		},
	},
	{
		phrases: []string{"ayer"},
		build: func(t Date) DateRange {
			d := t.AddDays(-1)
			return DateRange{From: d, To: d, Label: "ayer"}
		},
	},
	{
		phrases: []string{"esta semana", "semana actual"},
		build:   func(t Date) DateRange { return weekOf(t, 0, "esta semana") },
	},
	{
		phrases: []string{"proxima semana", "siguiente semana"},
		build:   func(t Date) DateRange { return weekOf(t, 7, "la próxima semana") },
	},
	{
		phrases: []string{"este mes", "mes actual"},
		build:   func(t Date) DateRange { return monthOf(t.Year, t.Month, "este mes") },
	},
	{
		phrases: []string{"proximo mes", "siguiente mes"},
		build: func(t Date) DateRange {
			first := Date{Year: t.Year, Month: t.Month, Day: 1}.AddDays(32)
			return monthOf(first.Year, first.Month, "el próximo mes")
		},
	},
}

// weekOf builds the Monday-to-Sunday week containing today shifted by offset days
func weekOf(today Date, offset int, label string) DateRange {
	sinceMonday := (int(today.Weekday()) + 6) % 7
	start := today.AddDays(offset - sinceMonday)
	return DateRange{From: start, To: start.AddDays(6), Label: label}
}

func monthOf(year int, month time.Month, label string) DateRange {
	first := Date{Year: year, Month: month, Day: 1}
	last := DateOf(first.midnight(time.UTC).AddDate(0, 1, -1))
	return DateRange{From: first, To: last, Label: label}
}

// RelativeRange resolves relative period phrases (hoy, esta semana, ...) in
// the folded message against today. Weeks run Monday through Sunday
func RelativeRange(msg string, today Date) (DateRange, bool) {
	for _, p := range relPeriods {
		for _, phrase := range p.phrases {
			if containsPhrase(msg, phrase) {
				return p.build(today), true
			}
		}
	}
	return DateRange{}, false
}
