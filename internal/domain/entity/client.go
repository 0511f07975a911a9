package entity

import (
	"fmt"
	"strings"
	"time"
)

// ClientType clasificación comercial del cliente.
type ClientType string

const (
	ClientRegular   ClientType = "regular"
	ClientVIP       ClientType = "vip"
	ClientWholesale ClientType = "mayorista"
)

// ClientTypes tipos válidos.
func ClientTypes() []ClientType {
	return []ClientType{ClientRegular, ClientVIP, ClientWholesale}
}

// ParseClientType valida el tipo; vacío equivale a regular.
func ParseClientType(s string) (ClientType, error) {
	switch ClientType(strings.ToLower(strings.TrimSpace(s))) {
	case "", ClientRegular:
		return ClientRegular, nil
	case ClientVIP:
		return ClientVIP, nil
	case ClientWholesale:
		return ClientWholesale, nil
	}
	return "", fmt.Errorf("tipo de cliente desconocido %q", s)
}

// Client ficha de un cliente de la óptica.
type Client struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	BirthDate  *time.Time
	Address    string
	City       string
	PostalCode string
	Type       ClientType
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName nombre y apellido separados por espacio.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
