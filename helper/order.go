package helper

import (
	"fmt"

	"laundry_manager/config"
	"laundry_manager/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextOrderNumber issues the next sequential order number inside tx. The
// sequence row is locked FOR UPDATE so concurrent creates serialize on it;
// the counter only moves forward, so deleted orders never cause a number to
// be reissued.
func NextOrderNumber(tx *gorm.DB) (string, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq model.OrderSequence
	if err := q.Where(model.OrderSequence{ID: 1}).FirstOrCreate(&seq).Error; err != nil {
		return "", err
	}

	seq.LastNumber++
	if err := tx.Save(&seq).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%04d", seq.LastNumber), nil
}

// ComputeOrderTotal sums quantity x unit price across line items unless an
// explicit override is supplied.
func ComputeOrderTotal(items []model.OrderItemInput, override *float64) float64 {
	if override != nil {
		return *override
	}
	total := 0.0
	for _, item := range items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// TrackingURL is the payload embedded in an order's QR code. Scanning it
// lands on the public tracking page for the order number.
func TrackingURL(orderNumber string) string {
	return fmt.Sprintf("%s/track.html?order=%s", config.ConfigOr("FRONTEND_URL", "http://localhost:5173"), orderNumber)
}
