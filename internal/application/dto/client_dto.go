package dto

import "time"

// CreateClientRequest alta de cliente.
type CreateClientRequest struct {
	Nombre          string `json:"nombre" validate:"required,max=120"`
	Apellido        string `json:"apellido" validate:"required,max=120"`
	Email           string `json:"email" validate:"omitempty,email"`
	Telefono        string `json:"telefono" validate:"omitempty,max=40"`
	FechaNacimiento string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Direccion       string `json:"direccion" validate:"omitempty,max=250"`
	Ciudad          string `json:"ciudad" validate:"omitempty,max=120"`
	CodigoPostal    string `json:"codigo_postal" validate:"omitempty,max=20"`
	TipoCliente     string `json:"tipo_cliente" validate:"omitempty,oneof=regular vip mayorista"`
	Observaciones   string `json:"observaciones"`
}

// UpdateClientRequest edición parcial de cliente.
type UpdateClientRequest struct {
	Nombre          *string `json:"nombre" validate:"omitempty,min=1,max=120"`
	Apellido        *string `json:"apellido" validate:"omitempty,min=1,max=120"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Telefono        *string `json:"telefono" validate:"omitempty,max=40"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Direccion       *string `json:"direccion"`
	Ciudad          *string `json:"ciudad"`
	CodigoPostal    *string `json:"codigo_postal"`
	TipoCliente     *string `json:"tipo_cliente" validate:"omitempty,oneof=regular vip mayorista"`
	Observaciones   *string `json:"observaciones"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID              string    `json:"id"`
	Nombre          string    `json:"nombre"`
	Apellido        string    `json:"apellido"`
	Email           string    `json:"email"`
	Telefono        string    `json:"telefono"`
	FechaNacimiento *string   `json:"fecha_nacimiento"`
	Direccion       string    `json:"direccion"`
	Ciudad          string    `json:"ciudad"`
	CodigoPostal    string    `json:"codigo_postal"`
	TipoCliente     string    `json:"tipo_cliente"`
	Observaciones   string    `json:"observaciones"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ClientHistoryResponse historial del cliente: citas, recetas y ventas.
type ClientHistoryResponse struct {
	Client        ClientResponse         `json:"cliente"`
	Appointments  []AppointmentResponse  `json:"citas"`
	Prescriptions []PrescriptionResponse `json:"recetas"`
	Sales         []SaleResponse         `json:"ventas"`
}

// ClientStatsResponse estadísticas de clientes.
type ClientStatsResponse struct {
	Total        int            `json:"total"`
	ByType       map[string]int `json:"por_tipo"`
	NewThisMonth int            `json:"nuevos_mes"`
}
