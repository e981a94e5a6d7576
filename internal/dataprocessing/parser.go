package dataprocessing

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"athexcli/pkg/contracts/domain"
)

// blockTableMarkers flag a page as carrying the block-trade table. Any one
// of them is enough; different report vintages use different captions.
var blockTableMarkers = []string{
	"Στοιχεία Συναλλαγών Πακέτων",
	"Πίνακας Προσυμφωνημένων Συναλλαγών",
	"Χρεόγραφα Όγκος πακέτου Τιμή πακέτου Αξία πακέτου Ώρα έγκρισης",
}

// tableEndMarker terminates the table body (footnotes section).
const tableEndMarker = "Σημειώσεις"

// approvalTimeRe anchors a data row: approval time plus note id at line end.
var approvalTimeRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2})\s+(\d+)$`)

// ParseStats counts the lines a page parse dropped, by reason. Skips are
// normal for this format (wrapped company names, decorative rules), but they
// must stay countable so a layout change cannot silently eat rows.
type ParseStats struct {
	Rows       int // rows successfully parsed
	NoiseLines int // body lines without the trailing time/note pattern
	ShortLines int // matched lines with fewer than 4 tokens
	BadNumbers int // matched lines whose numeric fields failed to parse
}

// PageHasBlockTable reports whether a page's text contains the block-trade
// table (or its caption) and should be parsed.
func PageHasBlockTable(text string) bool {
	for _, marker := range blockTableMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// ParsePageTable extracts block-trade rows from one page's text. Records
// come back without a date; the processor stamps the report date on the
// unioned set. A page without the table header yields no rows and no error.
func ParsePageTable(text string) ([]domain.TradeRecord, ParseStats) {
	var stats ParseStats
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.Contains(line, "Χρεόγραφα") &&
			strings.Contains(line, "Όγκος") &&
			strings.Contains(line, "Ώρα έγκρισης") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, stats
	}

	var records []domain.TradeRecord
	for _, raw := range lines[start:] {
		line := strings.TrimSpace(raw)
		if line == "" || strings.Contains(line, tableEndMarker) {
			break
		}
		m := approvalTimeRe.FindStringSubmatchIndex(line)
		if m == nil {
			stats.NoiseLines++
			continue
		}
		approvalTime := line[m[2]:m[3]]
		noteStr := line[m[4]:m[5]]

		left := strings.TrimSpace(line[:m[0]])
		parts := strings.Fields(left)
		if len(parts) < 4 {
			stats.ShortLines++
			continue
		}
		valueStr := parts[len(parts)-1]
		priceStr := parts[len(parts)-2]
		volumeStr := parts[len(parts)-3]
		company := strings.Join(parts[:len(parts)-3], " ")

		volume, err := parseGreekInt(volumeStr)
		if err != nil {
			stats.BadNumbers++
			slog.Warn("Dropping row with unparseable volume",
				slog.String("company", company),
				slog.String("volume", volumeStr))
			continue
		}
		price, err := parseGreekDecimal(priceStr)
		if err != nil {
			stats.BadNumbers++
			slog.Warn("Dropping row with unparseable price",
				slog.String("company", company),
				slog.String("price", priceStr))
			continue
		}
		value, err := parseGreekDecimal(valueStr)
		if err != nil {
			stats.BadNumbers++
			slog.Warn("Dropping row with unparseable value",
				slog.String("company", company),
				slog.String("value", valueStr))
			continue
		}
		note, err := strconv.Atoi(noteStr)
		if err != nil {
			// Unreachable with the current regex; kept so a regex change
			// cannot coerce the field to zero.
			stats.BadNumbers++
			continue
		}

		records = append(records, domain.TradeRecord{
			Company:      company,
			Volume:       volume,
			Price:        price,
			Value:        value,
			ApprovalTime: approvalTime,
			Note:         note,
		})
		stats.Rows++
	}
	return records, stats
}

// parseGreekInt parses an integer in Greek formatting: "." is the thousands
// separator ("1.000" is one thousand). A decimal comma is an error here, not
// something to round away.
func parseGreekInt(s string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(s, ".", ""), 10, 64)
}

// parseGreekDecimal parses a decimal in Greek formatting: "." thousands
// separator, "," decimal separator ("2.500,00" is 2500.00).
func parseGreekDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}
