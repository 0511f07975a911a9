package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EyeDTO graduación de un ojo.
type EyeDTO struct {
	Esfera   decimal.Decimal `json:"esfera"`
	Cilindro decimal.Decimal `json:"cilindro"`
	Eje      int             `json:"eje" validate:"gte=0,lte=180"`
}

// CreatePrescriptionRequest alta de receta.
type CreatePrescriptionRequest struct {
	ClienteID        string           `json:"cliente_id" validate:"required,uuid"`
	Fecha            string           `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	OjoDerecho       EyeDTO           `json:"ojo_derecho"`
	OjoIzquierdo     EyeDTO           `json:"ojo_izquierdo"`
	DistanciaPupilar *decimal.Decimal `json:"distancia_pupilar"`
	Observaciones    string           `json:"observaciones"`
}

// PrescriptionResponse salida de receta.
type PrescriptionResponse struct {
	ID               string           `json:"id"`
	ClienteID        string           `json:"cliente_id"`
	Fecha            string           `json:"fecha"`
	OjoDerecho       EyeDTO           `json:"ojo_derecho"`
	OjoIzquierdo     EyeDTO           `json:"ojo_izquierdo"`
	DistanciaPupilar *decimal.Decimal `json:"distancia_pupilar"`
	Observaciones    string           `json:"observaciones"`
	CreatedAt        time.Time        `json:"created_at"`
}
