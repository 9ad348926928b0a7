package analytics

import (
	"salonstock/internal/models"

	"github.com/google/uuid"
)

// Drift is a product whose snapshot quantity disagrees with its ledger.
type Drift struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	LedgerSum   int       `json:"ledger_sum"`
	Difference  int       `json:"difference"` // Quantity - LedgerSum
}

// Reconcile checks quantity == Σ in − Σ out for each product. The initial stock
// entry is part of the ledger, so no separate baseline is needed. It never writes.
func Reconcile(products []*models.Product, transactions []*models.Transaction) []Drift {
	sums := make(map[uuid.UUID]int, len(products))
	for _, t := range transactions {
		sums[t.ProductID] += t.Signed()
	}
	var drifts []Drift
	for _, p := range products {
		sum := sums[p.ID]
		if sum != p.Quantity {
			drifts = append(drifts, Drift{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    p.Quantity,
				LedgerSum:   sum,
				Difference:  p.Quantity - sum,
			})
		}
	}
	return drifts
}
