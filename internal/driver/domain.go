package driver

import (
	"errors"
	"time"
)

var (
	ErrDriverNotFound    = errors.New("driver not found")
	ErrInsufficientFunds = errors.New("insufficient earnings balance")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// Location — позиция водителя с отметкой времени
type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document — загруженный документ водителя (лицензия, страховка и т.п.)
type Document struct {
	ID         string    `json:"id"`
	DocType    string    `json:"doc_type"`
	URL        string    `json:"url"`
	Verified   bool      `json:"verified"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Payout — выплата заработка
type Payout struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// EarningsSummary — сводка по заработку для экрана водителя
type EarningsSummary struct {
	Balance    float64  `json:"balance"`
	TotalRides int      `json:"total_rides"`
	Rating     float64  `json:"rating"`
	Payouts    []Payout `json:"payouts"`
}
