package entity

import "time"

// Category agrupa artículos del catálogo.
type Category struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
