package entity

import "time"

// Claves de configuración conocidas de la aplicación.
const (
	SettingStoreName     = "store_name"
	SettingStoreAddress  = "store_address"
	SettingStorePhone    = "store_phone"
	SettingTaxRate       = "tax_rate"       // porcentaje, ej. "11"
	SettingReceiptFooter = "receipt_footer" // leyenda al pie del ticket
)

// Setting par clave/valor de configuración de la tienda.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
