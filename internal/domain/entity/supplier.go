package entity

import "time"

// Supplier proveedor de mercancía (origen de órdenes de compra).
type Supplier struct {
	ID        string
	Code      string
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
