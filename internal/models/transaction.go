package models

import (
	"time"
)

type Transaction struct {
	ID          string    `firestore:"id" json:"id"` // doc ID / primary key
	Title       string    `firestore:"title" json:"title"`
	Description string    `firestore:"description" json:"description"`
	Price       float64   `firestore:"price" json:"price"`
	Category    string    `firestore:"category" json:"category"`
	Sold        bool      `firestore:"sold" json:"sold"`
	DateOfSale  time.Time `firestore:"dateOfSale" json:"dateOfSale"` // always UTC
	Image       string    `firestore:"image" json:"image"`
}
