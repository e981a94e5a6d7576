package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"athexcli/internal/config"
	"athexcli/pkg/contracts/domain"
)

// newTestLedger saves a workbook with a Master sheet laid out per the
// default config (headers in row 2 at columns B, F, …) and opens it.
func newTestLedger(t *testing.T, headers map[string]string, dateRows []string) *Ledger {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "Master"))
	f.SetCellValue("Master", "A1", "Ημερήσια Πακέτα")
	for cell, text := range headers {
		f.SetCellValue("Master", cell, text)
	}
	for i, d := range dateRows {
		cell, err := excelize.CoordinatesToCellName(1, 3+i)
		require.NoError(t, err)
		f.SetCellValue("Master", cell, d)
	}

	path := filepath.Join(t.TempDir(), "Block Trades.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	l, err := Open(path, config.Default().Ledger)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpenMissingMasterSheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "wrong.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := Open(path, config.Default().Ledger)
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestHeaderBlocks(t *testing.T) {
	l := newTestLedger(t, map[string]string{
		"B2": "ΕΛΛΑΚΤΩΡ ΑΕ (ΚΟ)",
		"F2": "ΜΟΤΟΡ ΟΙΛ (ΚΟ)",
	}, nil)

	blocks, err := l.HeaderBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	b, ok := blocks["ΕΛΛΑΚΤΩΡ ΑΕ (KO)"]
	require.True(t, ok, "header must be keyed by its normalized text")
	assert.Equal(t, "ΕΛΛΑΚΤΩΡ ΑΕ (ΚΟ)", b.Company)
	assert.Equal(t, 2, b.DateCol)
	assert.Equal(t, 3, b.VolumeCol)
	assert.Equal(t, 4, b.CountCol)
	assert.Equal(t, 5, b.PriceCol)

	assert.Equal(t, 6, blocks["ΜΟΤΟΡ ΟΙΛ (KO)"].DateCol)
}

func TestHeaderBlocksIgnoresOffStrideCells(t *testing.T) {
	// C2 sits inside the first company's block, not on an anchor column.
	l := newTestLedger(t, map[string]string{
		"B2": "ΕΛΛΑΚΤΩΡ ΑΕ",
		"C2": "ΣΠΑΚΕΤΩΝ",
		"F2": "ΜΟΤΟΡ ΟΙΛ",
	}, nil)

	blocks, err := l.HeaderBlocks()
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestLocateExistingRow(t *testing.T) {
	l := newTestLedger(t, map[string]string{"B2": "ΕΛΛΑΚΤΩΡ ΑΕ"},
		[]string{"25.08.2025", "26.08.2025", "27.08.2025"})

	row, err := l.LocateOrCreateRow(time.Date(2025, time.August, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 4, row)
}

func TestLocateOrCreateRowAppends(t *testing.T) {
	l := newTestLedger(t, map[string]string{"B2": "ΕΛΛΑΚΤΩΡ ΑΕ"},
		[]string{"25.08.2025"})

	date := time.Date(2025, time.August, 26, 0, 0, 0, 0, time.UTC)
	row, err := l.LocateOrCreateRow(date)
	require.NoError(t, err)
	assert.Equal(t, 4, row, "new dates append past the last row")

	// Re-running the same date must find the row it just created, not
	// append a duplicate.
	again, err := l.LocateOrCreateRow(date)
	require.NoError(t, err)
	assert.Equal(t, row, again)
}

func TestLocateOrCreateRowEmptyLedger(t *testing.T) {
	l := newTestLedger(t, map[string]string{"B2": "ΕΛΛΑΚΤΩΡ ΑΕ"}, nil)

	row, err := l.LocateOrCreateRow(time.Date(2025, time.August, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, row, "first data row sits directly below the header band")
}

func TestFillRowSingleTrade(t *testing.T) {
	l := newTestLedger(t, map[string]string{"B2": "ΕΛΛΑΚΤΩΡ ΑΕ"}, nil)
	blocks, err := l.HeaderBlocks()
	require.NoError(t, err)

	date := time.Date(2025, time.August, 26, 0, 0, 0, 0, time.UTC)
	groups := map[string]*domain.CompanyGroup{
		"ΕΛΛΑΚΤΩΡ ΑΕ": {
			Name:    "ΕΛΛΑΚΤΩΡ ΑΕ",
			Volumes: []int64{1000},
			Prices:  []decimal.Decimal{decimal.RequireFromString("2.50")},
		},
	}
	require.NoError(t, l.FillRow(3, blocks, groups, date))

	// A single trade writes the bare number, not a formula.
	formula, err := l.f.GetCellFormula("Master", "C3")
	require.NoError(t, err)
	assert.Empty(t, formula)
	vol, err := l.f.GetCellValue("Master", "C3")
	require.NoError(t, err)
	assert.Equal(t, "1000", vol)

	count, err := l.f.GetCellValue("Master", "D3")
	require.NoError(t, err)
	assert.Equal(t, "1", count)

	prices, err := l.f.GetCellValue("Master", "E3")
	require.NoError(t, err)
	assert.Equal(t, "2,50", prices)

	dateCell, err := l.f.GetCellValue("Master", "B3")
	require.NoError(t, err)
	assert.Equal(t, "26.08.2025", dateCell)
}

func TestFillRowMultipleTrades(t *testing.T) {
	l := newTestLedger(t, map[string]string{"B2": "ΕΛΛΑΚΤΩΡ ΑΕ"}, nil)
	blocks, err := l.HeaderBlocks()
	require.NoError(t, err)

	groups := map[string]*domain.CompanyGroup{
		"ΕΛΛΑΚΤΩΡ ΑΕ": {
			Name:    "ΕΛΛΑΚΤΩΡ ΑΕ",
			Volumes: []int64{100, 250, 75},
			Prices: []decimal.Decimal{
				decimal.RequireFromString("12.5"),
				decimal.RequireFromString("7.03"),
			},
		},
	}
	date := time.Date(2025, time.August, 26, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.FillRow(3, blocks, groups, date))

	formula, err := l.f.GetCellFormula("Master", "C3")
	require.NoError(t, err)
	assert.Equal(t, "100+250+75", formula, "operands keep encounter order")

	count, err := l.f.GetCellValue("Master", "D3")
	require.NoError(t, err)
	assert.Equal(t, "3", count)

	prices, err := l.f.GetCellValue("Master", "E3")
	require.NoError(t, err)
	assert.Equal(t, "12,50-7,03", prices)
}

func TestFillRowCompanyWithoutTrades(t *testing.T) {
	l := newTestLedger(t, map[string]string{
		"B2": "ΕΛΛΑΚΤΩΡ ΑΕ",
		"F2": "ΜΟΤΟΡ ΟΙΛ",
	}, nil)
	blocks, err := l.HeaderBlocks()
	require.NoError(t, err)

	date := time.Date(2025, time.August, 26, 0, 0, 0, 0, time.UTC)
	groups := map[string]*domain.CompanyGroup{
		"ΕΛΛΑΚΤΩΡ ΑΕ": {
			Name:    "ΕΛΛΑΚΤΩΡ ΑΕ",
			Volumes: []int64{1000},
			Prices:  []decimal.Decimal{decimal.RequireFromString("2.50")},
		},
	}
	require.NoError(t, l.FillRow(3, blocks, groups, date))

	// The idle company still gets its date…
	dateCell, err := l.f.GetCellValue("Master", "F3")
	require.NoError(t, err)
	assert.Equal(t, "26.08.2025", dateCell)

	// …but volume/count/prices stay untouched.
	for _, cell := range []string{"G3", "H3", "I3"} {
		v, err := l.f.GetCellValue("Master", cell)
		require.NoError(t, err)
		assert.Empty(t, v, "cell %s must stay empty", cell)
	}
}

func TestFillRowIgnoresUnknownCompany(t *testing.T) {
	l := newTestLedger(t, map[string]string{"B2": "ΕΛΛΑΚΤΩΡ ΑΕ"}, nil)
	blocks, err := l.HeaderBlocks()
	require.NoError(t, err)

	groups := map[string]*domain.CompanyGroup{
		"ΑΓΝΩΣΤΗ ΑΕ": {
			Name:    "ΑΓΝΩΣΤΗ ΑΕ",
			Volumes: []int64{500},
			Prices:  []decimal.Decimal{decimal.RequireFromString("1.00")},
		},
	}
	date := time.Date(2025, time.August, 26, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.FillRow(3, blocks, groups, date))

	// Only the known company's block exists; its volume cell stays empty
	// and nothing is written outside mapped blocks.
	vol, err := l.f.GetCellValue("Master", "C3")
	require.NoError(t, err)
	assert.Empty(t, vol)
}

func TestVolumeFormula(t *testing.T) {
	assert.Equal(t, "100+250+75", VolumeFormula([]int64{100, 250, 75}))
	assert.Equal(t, "42", VolumeFormula([]int64{42}))
}

func TestFormatPriceList(t *testing.T) {
	prices := []decimal.Decimal{
		decimal.RequireFromString("12.5"),
		decimal.RequireFromString("7.03"),
	}
	assert.Equal(t, "12,50-7,03", FormatPriceList(prices))
	assert.Equal(t, "12,50", FormatPriceList(prices[:1]))
	assert.Equal(t, "", FormatPriceList(nil))
}
