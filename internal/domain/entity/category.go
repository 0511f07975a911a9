package entity

import "time"

// Category categoría de productos (monturas, lentes, accesorios...).
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
