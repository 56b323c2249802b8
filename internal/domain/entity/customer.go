package entity

import "time"

// Customer cliente registrado (opcional en ventas de mostrador).
type Customer struct {
	ID        string
	Code      string
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
