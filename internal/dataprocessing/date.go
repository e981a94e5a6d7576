package dataprocessing

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"athexcli/internal/normalize"
	"athexcli/internal/pdfdoc"
)

// ErrNoReportDate is returned when no page of the document yields a
// resolvable report date. Downstream row dating cannot proceed without one.
var ErrNoReportDate = errors.New("no report date found in document")

// greekMonths resolves genitive month names as printed in the report header.
// Both accented spellings of May occur in the wild.
var greekMonths = map[string]time.Month{
	"Ιανουαρίου":  time.January,
	"Φεβρουαρίου": time.February,
	"Μαρτίου":     time.March,
	"Απριλίου":    time.April,
	"Μαΐου":       time.May,
	"Μαίου":       time.May,
	"Ιουνίου":     time.June,
	"Ιουλίου":     time.July,
	"Αυγούστου":   time.August,
	"Σεπτεμβρίου": time.September,
	"Οκτωβρίου":   time.October,
	"Νοεμβρίου":   time.November,
	"Δεκεμβρίου":  time.December,
}

// greekMonthsPlain is the accent-free fallback, consulted after stripping
// diacritics from a month name that missed the primary table.
var greekMonthsPlain = map[string]time.Month{
	"Ιανουαριου":  time.January,
	"Φεβρουαριου": time.February,
	"Μαρτιου":     time.March,
	"Απριλιου":    time.April,
	"Μαιου":       time.May,
	"Ιουνιου":     time.June,
	"Ιουλιου":     time.July,
	"Αυγουστου":   time.August,
	"Σεπτεμβριου": time.September,
	"Οκτωβριου":   time.October,
	"Νοεμβριου":   time.November,
	"Δεκεμβριου":  time.December,
}

// reportDateRe matches the header date line: day-of-week name, day number,
// month name, 4-digit year.
var reportDateRe = regexp.MustCompile(
	`(?:Δευτέρα|Τρίτη|Τετάρτη|Πέμπτη|Παρασκευή|Σάββατο|Κυριακή),?\s+(\d{1,2})\s+([\p{Greek}A-Za-z]+),\s+(\d{4})`)

// ExtractReportDate scans pages in order and returns the date from the first
// page whose header date line resolves. A month name that misses both lookup
// tables skips that page rather than failing the scan.
func ExtractReportDate(doc pdfdoc.Document) (time.Time, error) {
	for n := 1; n <= doc.NumPages(); n++ {
		text, err := doc.PageText(n)
		if err != nil {
			continue
		}
		m := reportDateRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		month, ok := resolveMonth(m[2])
		if !ok {
			continue
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrNoReportDate
}

func resolveMonth(name string) (time.Month, bool) {
	if m, ok := greekMonths[name]; ok {
		return m, true
	}
	m, ok := greekMonthsPlain[normalize.Deaccent(name)]
	return m, ok
}
