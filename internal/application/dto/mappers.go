package dto

import (
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

// DateLayout formato de fechas de calendario en la API.
const DateLayout = "2006-01-02"

// FromProduct convierte la entidad en respuesta.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Nombre:       p.Name,
		Marca:        p.Brand,
		CategoriaID:  p.CategoryID,
		Precio:       p.Price,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimum,
		StockBajo:    p.IsLowStock(),
		Descripcion:  p.Description,
		CodigoBarras: p.Barcode,
		ImagenURL:    p.ImageURL,
		Activo:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromProducts convierte una lista; nunca devuelve nil.
func FromProducts(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromProduct(p))
	}
	return out
}

// FromMovement convierte un movimiento.
func FromMovement(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		ProductoID:      m.ProductID,
		Tipo:            string(m.Kind),
		Cantidad:        m.Quantity,
		StockAnterior:   m.PreviousStock,
		StockResultante: m.ResultingStock,
		Motivo:          m.Reason,
		Usuario:         m.Actor,
		Fecha:           m.Date,
	}
}

// FromClient convierte un cliente.
func FromClient(c *entity.Client) ClientResponse {
	out := ClientResponse{
		ID:            c.ID,
		Nombre:        c.FirstName,
		Apellido:      c.LastName,
		Email:         c.Email,
		Telefono:      c.Phone,
		Direccion:     c.Address,
		Ciudad:        c.City,
		CodigoPostal:  c.PostalCode,
		TipoCliente:   string(c.Type),
		Observaciones: c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.BirthDate != nil {
		s := c.BirthDate.Format(DateLayout)
		out.FechaNacimiento = &s
	}
	return out
}

// FromAppointment convierte una cita sin datos del cliente.
func FromAppointment(a *entity.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		ClienteID:     a.ClientID,
		Fecha:         a.Date.Format(DateLayout),
		Hora:          a.Time,
		Motivo:        a.Reason,
		Observaciones: a.Notes,
		Estado:        string(a.Status),
		CompletedAt:   a.CompletedAt,
		CancelledAt:   a.CancelledAt,
		CreatedAt:     a.CreatedAt,
	}
}

// FromAppointmentWithClient convierte una cita con los datos del cliente.
func FromAppointmentWithClient(a *entity.AppointmentWithClient) AppointmentResponse {
	out := FromAppointment(&a.Appointment)
	out.ClienteNombre = a.ClientFirstName
	out.ClienteApellido = a.ClientLastName
	out.ClienteEmail = a.ClientEmail
	return out
}

// FromPrescription convierte una receta.
func FromPrescription(p *entity.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:        p.ID,
		ClienteID: p.ClientID,
		Fecha:     p.Date.Format(DateLayout),
		OjoDerecho: EyeDTO{
			Esfera: p.RightEye.Sphere, Cilindro: p.RightEye.Cylinder, Eje: p.RightEye.Axis,
		},
		OjoIzquierdo: EyeDTO{
			Esfera: p.LeftEye.Sphere, Cilindro: p.LeftEye.Cylinder, Eje: p.LeftEye.Axis,
		},
		DistanciaPupilar: p.PupillaryDistance,
		Observaciones:    p.Notes,
		CreatedAt:        p.CreatedAt,
	}
}

// FromSale convierte una venta con sus líneas.
func FromSale(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		ClienteID:     s.ClientID,
		Fecha:         s.Date,
		Subtotal:      s.Subtotal,
		Impuesto:      s.Tax,
		Total:         s.Total,
		MetodoPago:    string(s.PaymentMethod),
		Estado:        s.Status,
		Observaciones: s.Notes,
		Usuario:       s.Actor,
	}
	for _, l := range s.Lines {
		out.Lineas = append(out.Lineas, SaleLineResponse{
			ProductoID:     l.ProductID,
			Nombre:         l.ProductName,
			Cantidad:       l.Quantity,
			PrecioUnitario: l.UnitPrice,
			Subtotal:       l.Subtotal,
		})
	}
	return out
}

// FromUser convierte un perfil.
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nombre:    u.Name,
		Empresa:   u.Company,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}
