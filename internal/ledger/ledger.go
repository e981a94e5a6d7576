// Package ledger maintains the wide Master workbook: one row per trading
// date, one fixed 4-column block per company (date, aggregate volume, trade
// count, price list). It also emits the per-run audit sheet.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"athexcli/internal/config"
	"athexcli/internal/normalize"
	"athexcli/pkg/contracts/domain"
)

// ErrSheetNotFound means the workbook has no Master sheet. This is fatal
// and must surface before any write touches the file.
var ErrSheetNotFound = errors.New("master sheet not found in workbook")

// dateNumFmt renders ledger dates the way the back office reads them.
const dateNumFmt = "dd.mm.yyyy"

// cellDateLayouts are tried in order when parsing existing column-A values.
// Day-first layouts come first; the trailing US-style short forms cover
// workbooks whose date cells carry the spreadsheet default number format.
var cellDateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006 15:04",
	"02.01.2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/06 15:04",
	"1/2/06",
	"01-02-06",
}

// Ledger wraps an open workbook positioned on the Master sheet.
type Ledger struct {
	f         *excelize.File
	cfg       config.LedgerConfig
	dateStyle int
}

// Open opens the workbook at path and verifies the Master sheet exists.
// A missing sheet aborts here, before anything is written.
func Open(path string, cfg config.LedgerConfig) (*Ledger, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	idx, err := f.GetSheetIndex(cfg.SheetName)
	if err != nil || idx == -1 {
		f.Close()
		return nil, fmt.Errorf("sheet %q: %w", cfg.SheetName, ErrSheetNotFound)
	}
	return &Ledger{f: f, cfg: cfg}, nil
}

// Close releases the underlying workbook without saving.
func (l *Ledger) Close() error {
	return l.f.Close()
}

// SaveAs writes the workbook to path, overwriting any existing file.
func (l *Ledger) SaveAs(path string) error {
	if err := l.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// HeaderBlocks scans the header row at the fixed stride (columns B, F, J, …
// with the default layout) and returns the 4-column block of every company,
// keyed by normalized header text. The map is derived once per run and
// never mutated.
func (l *Ledger) HeaderBlocks() (map[string]domain.CompanyBlock, error) {
	rows, err := l.f.GetRows(l.cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", l.cfg.SheetName, err)
	}
	blocks := make(map[string]domain.CompanyBlock)
	if len(rows) < l.cfg.HeaderRow {
		return blocks, nil
	}
	header := rows[l.cfg.HeaderRow-1]
	for col := l.cfg.FirstCompanyColumn; col <= len(header); col += l.cfg.ColumnStride {
		text := strings.TrimSpace(header[col-1])
		if text == "" {
			continue
		}
		blocks[normalize.Normalize(text)] = domain.CompanyBlock{
			Company:   text,
			DateCol:   col,
			VolumeCol: col + 1,
			CountCol:  col + 2,
			PriceCol:  col + 3,
		}
	}
	return blocks, nil
}

// LocateOrCreateRow returns the data row whose column-A date equals the
// target date (date-only comparison). When no row matches, a new row is
// appended past the current last row and its date cell written; rows are
// never inserted mid-sheet. Calling twice with the same date returns the
// same index.
func (l *Ledger) LocateOrCreateRow(date time.Time) (int, error) {
	rows, err := l.f.GetRows(l.cfg.SheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %q: %w", l.cfg.SheetName, err)
	}
	for r := l.cfg.DataStartRow; r <= len(rows); r++ {
		row := rows[r-1]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		d, ok := l.parseCellDate(row[0])
		if !ok {
			continue
		}
		if sameDay(d, date) {
			return r, nil
		}
	}

	r := len(rows) + 1
	if r < l.cfg.DataStartRow {
		r = l.cfg.DataStartRow
	}
	if err := l.writeDate(1, r, date); err != nil {
		return 0, err
	}
	slog.Info("Appended new ledger row",
		slog.Int("row", r),
		slog.String("date", date.Format("02.01.2006")))
	return r, nil
}

// FillRow writes the report date and each company's aggregates onto one
// ledger row. Every header company gets the date; only companies with
// trades that day get volume/count/prices, the rest keep whatever the cells
// already hold. Parsed companies missing from blocks are not written at all.
func (l *Ledger) FillRow(row int, blocks map[string]domain.CompanyBlock, groups map[string]*domain.CompanyGroup, date time.Time) error {
	for _, key := range sortedBlockKeys(blocks) {
		block := blocks[key]
		if err := l.writeDate(block.DateCol, row, date); err != nil {
			return err
		}
		group, ok := groups[key]
		if !ok || len(group.Volumes) == 0 {
			continue
		}

		volCell, err := excelize.CoordinatesToCellName(block.VolumeCol, row)
		if err != nil {
			return err
		}
		if len(group.Volumes) == 1 {
			if err := l.f.SetCellValue(l.cfg.SheetName, volCell, group.Volumes[0]); err != nil {
				return fmt.Errorf("failed to write volume: %w", err)
			}
		} else {
			if err := l.f.SetCellFormula(l.cfg.SheetName, volCell, VolumeFormula(group.Volumes)); err != nil {
				return fmt.Errorf("failed to write volume formula: %w", err)
			}
		}

		countCell, err := excelize.CoordinatesToCellName(block.CountCol, row)
		if err != nil {
			return err
		}
		if err := l.f.SetCellValue(l.cfg.SheetName, countCell, len(group.Volumes)); err != nil {
			return fmt.Errorf("failed to write trade count: %w", err)
		}

		priceCell, err := excelize.CoordinatesToCellName(block.PriceCol, row)
		if err != nil {
			return err
		}
		if err := l.f.SetCellValue(l.cfg.SheetName, priceCell, FormatPriceList(group.Prices)); err != nil {
			return fmt.Errorf("failed to write price list: %w", err)
		}
	}
	return nil
}

// VolumeFormula builds the summation formula over volumes in encounter
// order, e.g. [100 250 75] -> "100+250+75". Callers write single-trade
// volumes as bare numbers instead.
func VolumeFormula(volumes []int64) string {
	parts := make([]string, len(volumes))
	for i, v := range volumes {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, "+")
}

// FormatPriceList joins prices in encounter order, each fixed to two
// decimals with a comma decimal separator, e.g. "12,50-7,03".
func FormatPriceList(prices []decimal.Decimal) string {
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = strings.ReplaceAll(p.StringFixed(2), ".", ",")
	}
	return strings.Join(parts, "-")
}

// writeDate writes a midnight datetime with the dd.mm.yyyy display format.
func (l *Ledger) writeDate(col, row int, date time.Time) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if err := l.f.SetCellValue(l.cfg.SheetName, cell, midnight); err != nil {
		return fmt.Errorf("failed to write date cell %s: %w", cell, err)
	}
	style, err := l.dateStyleID()
	if err != nil {
		return err
	}
	if err := l.f.SetCellStyle(l.cfg.SheetName, cell, cell, style); err != nil {
		return fmt.Errorf("failed to style date cell %s: %w", cell, err)
	}
	return nil
}

func (l *Ledger) dateStyleID() (int, error) {
	if l.dateStyle != 0 {
		return l.dateStyle, nil
	}
	numFmt := dateNumFmt
	id, err := l.f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return 0, fmt.Errorf("failed to create date style: %w", err)
	}
	l.dateStyle = id
	return id, nil
}

// parseCellDate parses an existing column-A cell leniently, day-first.
// Values may be formatted strings or raw Excel serial numbers.
func (l *Ledger) parseCellDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range cellDateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, true
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func sortedBlockKeys(blocks map[string]domain.CompanyBlock) []string {
	keys := make([]string, 0, len(blocks))
	for k := range blocks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return blocks[keys[i]].DateCol < blocks[keys[j]].DateCol
	})
	return keys
}
