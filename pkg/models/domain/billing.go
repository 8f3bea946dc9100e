package domain

import "time"

type ProductID string

const (
	ProductProMonthly   ProductID = "pro_monthly"
	ProductProYearly    ProductID = "pro_yearly"
	ProductPlusLifetime ProductID = "plus_lifetime"
)

type Product struct {
	ID         ProductID
	Plan       Plan
	AmountWon  int64
	ExpiryDays int
}

// Payment is the subset of a PortOne payment needed for verification.
type Payment struct {
	ID        string
	Status    string
	ProductID string
	AmountWon int64
}

// IssuedEntitlement is the result of a successful payment verification.
type IssuedEntitlement struct {
	Token     string
	Plan      Plan
	ExpiresAt time.Time
	ProductID ProductID
	Cached    bool
}

type Insight struct {
	ID          string
	Type        string // warning | info | success
	Icon        string
	Title       string
	Description string
}
