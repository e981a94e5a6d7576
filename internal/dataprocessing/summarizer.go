package dataprocessing

import (
	"athexcli/internal/normalize"
	"athexcli/pkg/contracts/domain"
)

// GroupTrades buckets records per normalized company name. Volumes and
// prices keep encounter order inside each group; the ledger writer turns
// them into the summation formula and the dash-joined price list in exactly
// this order. Pure function, no I/O.
func GroupTrades(records []domain.TradeRecord) map[string]*domain.CompanyGroup {
	groups := make(map[string]*domain.CompanyGroup)
	for _, rec := range records {
		key := normalize.Normalize(rec.Company)
		g, ok := groups[key]
		if !ok {
			g = &domain.CompanyGroup{Name: key}
			groups[key] = g
		}
		g.Volumes = append(g.Volumes, rec.Volume)
		g.Prices = append(g.Prices, rec.Price)
	}
	return groups
}
