package domain

import (
	"time"

	"github.com/google/uuid"
)

// StockBar is one daily OHLCV bar with the indicators computed for it.
// Bars are written by an external loader; nothing here enforces one bar per (symbol, date).
type StockBar struct {
	ID         uuid.UUID `json:"id"`
	Symbol     string    `json:"symbol"`
	Date       time.Time `json:"date"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	Volume     float64   `json:"volume"`
	RSI        *float64  `json:"rsi,omitempty"`
	MACD       *float64  `json:"macd,omitempty"`
	MACDSignal *float64  `json:"macd_signal,omitempty"`
	MACDHist   *float64  `json:"macd_hist,omitempty"`
	SMA20      *float64  `json:"sma_20,omitempty"`
	SMA50      *float64  `json:"sma_50,omitempty"`
	EMA12      *float64  `json:"ema_12,omitempty"`
	BBUpper    *float64  `json:"bb_upper,omitempty"`
	BBLower    *float64  `json:"bb_lower,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
