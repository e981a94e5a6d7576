package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is a single block trade parsed from the daily report.
// Records are immutable once parsed; downstream stages only read them.
type TradeRecord struct {
	Date         time.Time       `json:"date"`
	Company      string          `json:"company" validate:"required"`
	Volume       int64           `json:"volume" validate:"min=0"`
	Price        decimal.Decimal `json:"price"`
	Value        decimal.Decimal `json:"value"`
	ApprovalTime string          `json:"approval_time" validate:"required,datetime=15:04:05"`
	Note         int             `json:"note"`
}

// BlockTradeReport holds every block trade found in one daily report,
// stamped with the single report date resolved from the document header.
type BlockTradeReport struct {
	Date    time.Time     `json:"date"`
	Records []TradeRecord `json:"records"`
}

// CompanyGroup collects one company's trades for a day in encounter order
// (page order, then in-page order). The order is load-bearing: it decides
// the operand order of the volume formula and the order of the dash-joined
// price list written to the ledger.
type CompanyGroup struct {
	Name    string            `json:"name"` // normalized join key
	Volumes []int64           `json:"volumes"`
	Prices  []decimal.Decimal `json:"prices"`
}

// CompanyBlock is a company's fixed 4-column block in the Master sheet:
// date, aggregate volume, trade count, price list. Columns are 1-indexed.
type CompanyBlock struct {
	Company   string `json:"company"` // raw header text as displayed
	DateCol   int    `json:"date_col"`
	VolumeCol int    `json:"volume_col"`
	CountCol  int    `json:"count_col"`
	PriceCol  int    `json:"price_col"`
}
