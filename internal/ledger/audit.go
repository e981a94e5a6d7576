package ledger

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"athexcli/internal/normalize"
	"athexcli/pkg/contracts/domain"
)

var auditHeaders = []string{"Company", "Volume", "Price", "Value", "ApprovalTime", "Note", "Matched"}

// Row shading: the standard "good"/"bad" conditional-format fills, so the
// sheet reads the same as Excel's own highlighting.
const (
	matchedFill   = "C6EFCE"
	unmatchedFill = "FFC7CE"
)

const auditColWidth = 18

// WriteAuditSheet replaces any same-named sheet with a flat listing of the
// parsed records: raw company text plus a Matched flag telling whether the
// normalized name is a ledger header. Matched rows are green, unmatched
// red, so a renamed or newly listed company is visible at a glance.
func (l *Ledger) WriteAuditSheet(name string, records []domain.TradeRecord, blocks map[string]domain.CompanyBlock) error {
	if idx, err := l.f.GetSheetIndex(name); err == nil && idx != -1 {
		if err := l.f.DeleteSheet(name); err != nil {
			return fmt.Errorf("failed to replace sheet %q: %w", name, err)
		}
	}
	if _, err := l.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	for col, header := range auditHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := l.f.SetCellValue(name, cell, header); err != nil {
			return fmt.Errorf("failed to write audit header: %w", err)
		}
	}

	matchedStyle, err := l.fillStyle(matchedFill)
	if err != nil {
		return err
	}
	unmatchedStyle, err := l.fillStyle(unmatchedFill)
	if err != nil {
		return err
	}

	unmatched := 0
	for i, rec := range records {
		row := i + 2
		_, matched := blocks[normalize.Normalize(rec.Company)]
		flag := "No"
		style := unmatchedStyle
		if matched {
			flag = "Yes"
			style = matchedStyle
		} else {
			unmatched++
		}

		values := []interface{}{
			rec.Company,
			rec.Volume,
			rec.Price.InexactFloat64(),
			rec.Value.InexactFloat64(),
			rec.ApprovalTime,
			rec.Note,
			flag,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := l.f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("failed to write audit row %d: %w", row, err)
			}
		}

		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(auditHeaders), row)
		if err := l.f.SetCellStyle(name, first, last, style); err != nil {
			return fmt.Errorf("failed to shade audit row %d: %w", row, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(auditHeaders))
	if err := l.f.SetColWidth(name, "A", lastCol, auditColWidth); err != nil {
		return fmt.Errorf("failed to set audit column widths: %w", err)
	}

	slog.Info("Wrote audit sheet",
		slog.String("sheet", name),
		slog.Int("rows", len(records)),
		slog.Int("unmatched", unmatched))
	return nil
}

func (l *Ledger) fillStyle(color string) (int, error) {
	id, err := l.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create fill style: %w", err)
	}
	return id, nil
}
