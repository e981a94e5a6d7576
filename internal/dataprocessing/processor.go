package dataprocessing

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"athexcli/internal/pdfdoc"
	"athexcli/pkg/contracts/domain"
)

var recordValidator = validator.New()

// ExtractBlockTrades runs the full document pass: resolve the report date,
// locate every page carrying the block-trade table, parse and union their
// rows in page order, validate, and stamp the date on each record.
//
// An empty record set is a valid result (the report simply had no packages
// that day) and comes back with a nil error. Trades without a resolvable
// report date are unusable, so that case surfaces ErrNoReportDate.
func ExtractBlockTrades(doc pdfdoc.Document) (*domain.BlockTradeReport, error) {
	date, dateErr := ExtractReportDate(doc)

	var records []domain.TradeRecord
	var total ParseStats
	for n := 1; n <= doc.NumPages(); n++ {
		text, err := doc.PageText(n)
		if err != nil {
			slog.Warn("Skipping unreadable page",
				slog.Int("page", n),
				slog.String("error", err.Error()))
			continue
		}
		if !PageHasBlockTable(text) {
			continue
		}
		pageRecords, stats := ParsePageTable(text)
		total.Rows += stats.Rows
		total.NoiseLines += stats.NoiseLines
		total.ShortLines += stats.ShortLines
		total.BadNumbers += stats.BadNumbers
		records = append(records, pageRecords...)

		slog.Info("Parsed block-trade page",
			slog.Int("page", n),
			slog.Int("rows", stats.Rows),
			slog.Int("noise_lines", stats.NoiseLines),
			slog.Int("short_lines", stats.ShortLines),
			slog.Int("bad_numbers", stats.BadNumbers))
	}

	if len(records) == 0 {
		return &domain.BlockTradeReport{Date: date}, nil
	}
	if dateErr != nil {
		if errors.Is(dateErr, ErrNoReportDate) {
			return nil, fmt.Errorf("found %d block trades but %w", len(records), dateErr)
		}
		return nil, dateErr
	}

	valid := records[:0]
	dropped := 0
	for _, rec := range records {
		rec.Date = date
		if err := recordValidator.Struct(rec); err != nil {
			dropped++
			slog.Warn("Dropping invalid record",
				slog.String("company", rec.Company),
				slog.String("error", err.Error()))
			continue
		}
		valid = append(valid, rec)
	}

	slog.Info("Block-trade extraction complete",
		slog.String("report_date", date.Format("2006-01-02")),
		slog.Int("records", len(valid)),
		slog.Int("dropped_invalid", dropped),
		slog.Int("skipped_lines", total.NoiseLines+total.ShortLines+total.BadNumbers))

	return &domain.BlockTradeReport{Date: date, Records: valid}, nil
}
