package dto

// NewOrderRequest represents an order submitted from the dashboard
type NewOrderRequest struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
	Mode  string  `json:"mode"`
}
