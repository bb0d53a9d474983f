// Package model defines the core domain types shared across the application.
package model

import "time"

// Goal represents a declared expected purchase. Invoice line items are
// checked against the goal set; anything that matches no goal is suspicious.
type Goal struct {
	CreatedAt time.Time
	DueDate   time.Time
	Name      string
	Outcome   string
	KeyResult string
	// ExpectedQuantity is nil when the goal carries no quantity, in which
	// case no quantity check is possible for items matching it.
	ExpectedQuantity *int64
	ID               int64
}

// HasQuantity reports whether a quantity check can be performed against this goal.
func (g *Goal) HasQuantity() bool {
	return g.ExpectedQuantity != nil
}
