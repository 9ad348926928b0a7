package analytics

import (
	"math"
	"sort"
	"time"

	"salonstock/internal/models"

	"github.com/google/uuid"
)

// Trend is the direction of month-over-month consumption.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Turnover classifies how fast stock is consumed relative to what is on hand.
type Turnover string

const (
	TurnoverHigh   Turnover = "High"
	TurnoverMedium Turnover = "Med"
	TurnoverLow    Turnover = "Low"
)

const (
	// TopConsumptionLimit is the default N for TopConsumption.
	TopConsumptionLimit = 5

	trendThreshold   = 5
	turnoverMonthLen = 30 * 24 * time.Hour
)

// OpeningStock is the reconstructed stock level of one product at a month start.
type OpeningStock struct {
	ProductID  uuid.UUID `json:"product_id"`
	OpeningQty int       `json:"opening_qty"`
	CurrentQty int       `json:"current_qty"`
	NetChange  int       `json:"net_change"`
}

// ConsumptionTrend compares this calendar month's withdrawals with last month's.
type ConsumptionTrend struct {
	Trend         Trend `json:"trend"`
	PercentChange int   `json:"percent_change"` // magnitude, always >= 0
}

// ConsumptionRank is one row of the top-N consumption ranking.
type ConsumptionRank struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Brand       string    `json:"brand"`
	Usage       int       `json:"usage"`
	Percentage  int       `json:"percentage"` // relative to the top entry
}

// MonthStart returns midnight on the first day of t's month, in t's location.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// MonthWindow returns [start, end) for the calendar month containing t.
func MonthWindow(t time.Time) (start, end time.Time) {
	start = MonthStart(t)
	return start, start.AddDate(0, 1, 0)
}

// round matches the half-up rounding the figures were historically displayed with:
// -2.5 rounds to -2, 2.5 rounds to 3.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// ComputeOpeningStock derives each product's stock at monthStart from its current
// quantity and the ledger tail written since then.
func ComputeOpeningStock(products []*models.Product, transactions []*models.Transaction, monthStart time.Time) []OpeningStock {
	net := make(map[uuid.UUID]int, len(products))
	for _, t := range transactions {
		if !t.CreatedAt.Before(monthStart) {
			net[t.ProductID] += t.Signed()
		}
	}
	out := make([]OpeningStock, 0, len(products))
	for _, p := range products {
		change := net[p.ID]
		out = append(out, OpeningStock{
			ProductID:  p.ID,
			OpeningQty: max(0, p.Quantity-change),
			CurrentQty: p.Quantity,
			NetChange:  change,
		})
	}
	return out
}

// ComputeConsumptionTrend compares productID's withdrawals in now's calendar
// month with the month before.
func ComputeConsumptionTrend(transactions []*models.Transaction, productID uuid.UUID, now time.Time) ConsumptionTrend {
	thisStart, thisEnd := MonthWindow(now)
	lastStart := thisStart.AddDate(0, -1, 0)

	var thisMonth, lastMonth int
	for _, t := range transactions {
		if t.ProductID != productID || t.Type != models.TransactionOut {
			continue
		}
		switch {
		case inWindow(t.CreatedAt, thisStart, thisEnd):
			thisMonth += t.Amount
		case inWindow(t.CreatedAt, lastStart, thisStart):
			lastMonth += t.Amount
		}
	}

	if lastMonth == 0 {
		if thisMonth > 0 {
			return ConsumptionTrend{Trend: TrendUp, PercentChange: 100}
		}
		return ConsumptionTrend{Trend: TrendStable, PercentChange: 0}
	}

	pct := round(100 * float64(thisMonth-lastMonth) / float64(lastMonth))
	trend := TrendStable
	switch {
	case pct > trendThreshold:
		trend = TrendUp
	case pct < -trendThreshold:
		trend = TrendDown
	}
	if pct < 0 {
		pct = -pct
	}
	return ConsumptionTrend{Trend: trend, PercentChange: pct}
}

// AverageMonthlyConsumption spreads the product's all-time withdrawals over
// the 30-day months since its first withdrawal, never fewer than one.
func AverageMonthlyConsumption(productID uuid.UUID, transactions []*models.Transaction, now time.Time) float64 {
	var total int
	var earliest time.Time
	for _, t := range transactions {
		if t.ProductID != productID || t.Type != models.TransactionOut {
			continue
		}
		total += t.Amount
		if earliest.IsZero() || t.CreatedAt.Before(earliest) {
			earliest = t.CreatedAt
		}
	}
	months := 1.0
	if !earliest.IsZero() {
		months = math.Max(1, float64(now.Sub(earliest))/float64(turnoverMonthLen))
	}
	return float64(total) / months
}

// ClassifyTurnover rates a product by months of stock remaining at its
// average consumption rate.
func ClassifyTurnover(product *models.Product, transactions []*models.Transaction, now time.Time) Turnover {
	return TurnoverFor(product.Quantity, AverageMonthlyConsumption(product.ID, transactions, now))
}

// TurnoverFor classifies a quantity against an average monthly consumption.
func TurnoverFor(quantity int, avgMonthly float64) Turnover {
	if quantity <= 0 {
		if avgMonthly > 10 {
			return TurnoverHigh
		}
		return TurnoverLow
	}
	remaining := float64(quantity) / math.Max(avgMonthly, 1)
	switch {
	case remaining < 2:
		return TurnoverHigh
	case remaining < 6:
		return TurnoverMedium
	default:
		return TurnoverLow
	}
}

// RankConsumption aggregates withdrawals in [start, end) per product and returns
// the top n by usage. Names come from the live product when it still exists,
// else from the ledger entry. Ties are broken by name then id.
func RankConsumption(transactions []*models.Transaction, products []*models.Product, start, end time.Time, n int) []ConsumptionRank {
	if n <= 0 {
		n = TopConsumptionLimit
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	usage := make(map[uuid.UUID]*ConsumptionRank)
	for _, t := range transactions {
		if t.Type != models.TransactionOut || !inWindow(t.CreatedAt, start, end) {
			continue
		}
		r, ok := usage[t.ProductID]
		if !ok {
			r = &ConsumptionRank{ProductID: t.ProductID, ProductName: t.ProductName, Brand: t.Brand}
			if p, found := byID[t.ProductID]; found {
				r.ProductName, r.Brand = p.Name, p.Brand
			}
			usage[t.ProductID] = r
		}
		r.Usage += t.Amount
	}

	ranked := make([]ConsumptionRank, 0, len(usage))
	for _, r := range usage {
		ranked = append(ranked, *r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Usage != ranked[j].Usage {
			return ranked[i].Usage > ranked[j].Usage
		}
		if ranked[i].ProductName != ranked[j].ProductName {
			return ranked[i].ProductName < ranked[j].ProductName
		}
		return ranked[i].ProductID.String() < ranked[j].ProductID.String()
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if len(ranked) > 0 {
		top := ranked[0].Usage
		for i := range ranked {
			ranked[i].Percentage = round(100 * float64(ranked[i].Usage) / float64(top))
		}
	}
	return ranked
}
