package stats

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/commerce-ops/opsboard/internal/entity"
)

// Metrics is the fixed set of summary statistics shown on the dashboard
// cards.
type Metrics struct {
	Total             int             `json:"total"`
	Pending           int             `json:"pending"`
	InTransit         int             `json:"inTransit"`
	Completed         int             `json:"completed"`
	Cancelled         int             `json:"cancelled"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	CompletionRate    int             `json:"completionRate"`
}

// Aggregate reduces an enriched batch into Metrics in a single pass. The
// reduction is order-independent and total: an empty batch yields all zeros
// rather than a division error.
//
// Completed counts every delivered order even when it is also cancelled,
// while the canonical status treats cancellation as overriding. The upstream
// dashboard behaves the same way, so the quirk is kept rather than corrected.
func Aggregate(orders []entity.EnrichedOrder) Metrics {
	m := Metrics{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	m.Total = len(orders)

	for _, o := range orders {
		if o.Placed && !o.Confirmed && !o.Cancelled {
			m.Pending++
		}
		if o.Shipped && !o.Delivered && !o.Cancelled {
			m.InTransit++
		}
		if o.Delivered {
			m.Completed++
		}
		if o.Cancelled {
			m.Cancelled++
		} else {
			m.TotalRevenue = m.TotalRevenue.Add(o.ActualAmount)
		}
	}

	if m.Total > 0 {
		m.AverageOrderValue = m.TotalRevenue.DivRound(decimal.NewFromInt(int64(m.Total)), 2)
		m.CompletionRate = int(math.Round(float64(m.Completed) / float64(m.Total) * 100))
	}

	return m
}
