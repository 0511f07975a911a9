package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EyeCorrection valores de graduación de un ojo.
type EyeCorrection struct {
	Sphere   decimal.Decimal
	Cylinder decimal.Decimal
	Axis     int // 0–180 grados
}

// Prescription receta óptica. Registro clínico inmutable.
type Prescription struct {
	ID                string
	ClientID          string
	Date              time.Time
	RightEye          EyeCorrection
	LeftEye           EyeCorrection
	PupillaryDistance *decimal.Decimal
	Notes             string
	CreatedAt         time.Time
}
