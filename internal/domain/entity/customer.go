package entity

import "time"

// Customer representa un cliente (receptor) de la empresa.
type Customer struct {
	ID           string
	CompanyID    string
	Name         string
	ReceiverType string // B, P, F (pkg/eta)
	TaxID        string // RIN para B, número nacional para P, pasaporte para F
	Email        string
	Phone        string
	Address      Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsBusiness indica si el cliente es un contribuyente registrado.
func (c *Customer) IsBusiness() bool {
	return c.ReceiverType == "B"
}
