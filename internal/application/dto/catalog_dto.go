package dto

// UpsertCategoryRequest body para crear/actualizar categorías.
type UpsertCategoryRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CategoryResponse categoría en respuestas.
type CategoryResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// UpsertPartyRequest body para crear/actualizar proveedores y clientes.
type UpsertPartyRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// PartyResponse proveedor o cliente en respuestas.
type PartyResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// SettingRequest body para PUT /api/settings.
type SettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SettingResponse par clave/valor.
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
