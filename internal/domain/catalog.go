package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Amount is a decimal value kept in the exact textual form the backend sent.
// The backend serializes decimals as strings ("799.99"); numbers are accepted too.
type Amount string

// UnmarshalJSON accepts a JSON string, number or null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*a = Amount(n.String())
	}
	return nil
}

// Category groups items
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// CategoryInput is the create payload for a category
type CategoryInput struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Slug  string `json:"slug"`
}

// Item is a catalog entry
type Item struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Price       Amount     `json:"price"`
	Available   bool       `json:"available"`
	Categories  []Category `json:"categories"`
}

// ItemInput is the create/update payload for an item.
// Nil pointers and empty values are omitted so updates stay partial.
type ItemInput struct {
	Name        string   `json:"name,omitempty"`
	Slug        string   `json:"slug,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Available   *bool    `json:"available,omitempty"`
	CategoryIDs []int    `json:"category_ids,omitempty"`
}

// Order is a purchase record. Totals are computed by the backend.
type Order struct {
	ID         int    `json:"id"`
	UserID     int    `json:"user"`
	ItemID     int    `json:"item"`
	ItemName   string `json:"item_name"`
	ItemPrice  Amount `json:"item_price"`
	Quantity   int    `json:"quantity"`
	TotalPrice Amount `json:"total_price"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// OrderInput is the create payload for an order
type OrderInput struct {
	ItemID   int `json:"item"`
	Quantity int `json:"quantity"`
}
