package entity

import "time"

// Store representa una tienda (sucursal). La tienda central abastece al resto.
type Store struct {
	ID        string
	Name      string
	Location  string
	IsCentral bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
