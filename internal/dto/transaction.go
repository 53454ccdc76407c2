package dto

import (
	"time"

	"github.com/GregMSThompson/transactions-backend/internal/models"
)

// TransactionQuery is the backend-neutral filter every store understands.
// From is inclusive and To exclusive. A nil pointer means "no constraint".
type TransactionQuery struct {
	From     time.Time
	To       time.Time
	Search   *string
	Sold     *bool
	MinPrice *float64 // inclusive
	MaxPrice *float64 // exclusive
	Skip     int
	Limit    int
}

// SeedTransaction is the wire shape of one record in the seed dataset.
type SeedTransaction struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Sold        bool      `json:"sold"`
	DateOfSale  time.Time `json:"dateOfSale"`
	Image       string    `json:"image"`
}

type InitializeResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ListTransactionsArgs pages a month listing. PerPage 0 returns every match.
type ListTransactionsArgs struct {
	Month   int    `validate:"min=1,max=12"`
	Search  string `validate:"max=200"`
	Page    int    `validate:"min=1"`
	PerPage int    `validate:"min=0"`
}

type ListTransactionsResult struct {
	Page         int                  `json:"page"`
	PerPage      int                  `json:"perPage"`
	Total        int64                `json:"total"`
	Transactions []models.Transaction `json:"transactions"`
}
