package entity

import "time"

// Variation es un SKU concreto de un producto (combinación talla/color).
type Variation struct {
	ID          string
	ProductID   string
	ProductName string
	SKU         string
	Size        string
	Color       string
	CreatedAt   time.Time
}
