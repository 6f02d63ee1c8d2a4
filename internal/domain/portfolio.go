package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Holding represents a long-term holding in the demo portfolio
type Holding struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Qty    int       `json:"qty"`
	Avg    float64   `json:"avg"`
	Price  float64   `json:"price"`
	Net    string    `json:"net"` // net change, e.g. "+0.58%"
	Day    string    `json:"day"` // day change, e.g. "-1.24%"
	IsLoss bool      `json:"isLoss"`
}

// Position represents an intraday or delivery position in the demo portfolio
type Position struct {
	ID      uuid.UUID `json:"id"`
	Product string    `json:"product"` // CNC, MIS, ...
	Name    string    `json:"name"`
	Qty     int       `json:"qty"`
	Avg     float64   `json:"avg"`
	Price   float64   `json:"price"`
	Net     string    `json:"net"`
	Day     string    `json:"day"`
	IsLoss  bool      `json:"isLoss"`
}

// Order represents a submitted buy or sell order
type Order struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
	Price     float64   `json:"price"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderMode constants
const (
	OrderModeBuy  = "BUY"
	OrderModeSell = "SELL"
)

// NormalizeOrderMode maps "buy"/"Sell"/... onto the stored constants.
// It returns false for anything that is not a buy or a sell.
func NormalizeOrderMode(mode string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case OrderModeBuy:
		return OrderModeBuy, true
	case OrderModeSell:
		return OrderModeSell, true
	default:
		return "", false
	}
}

// Validate checks the order invariants before it is stored
func (o *Order) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return &ValidationError{Message: "Order name is required"}
	}
	if o.Qty <= 0 {
		return &ValidationError{Message: "Quantity must be greater than zero"}
	}
	if o.Price <= 0 {
		return &ValidationError{Message: "Price must be greater than zero"}
	}
	mode, ok := NormalizeOrderMode(o.Mode)
	if !ok {
		return &ValidationError{Message: "Mode must be BUY or SELL"}
	}
	o.Mode = mode
	return nil
}
