package entity

import "time"

// Address dirección en el formato exigido por la ETA.
type Address struct {
	BranchID              string // "0" = sede principal
	Country               string // ISO 3166-1 alpha-2
	Governate             string
	RegionCity            string
	Street                string
	BuildingNumber        string
	PostalCode            string
	Floor                 string
	Room                  string
	Landmark              string
	AdditionalInformation string
}

// Company representa un tenant emisor de facturas ante la ETA.
type Company struct {
	ID                    string
	Name                  string
	TaxRegistrationNumber string // RIN (9 dígitos)
	ActivityCode          string // taxpayerActivityCode
	DefaultItemType       string // usado cuando el producto no tiene código ETA
	DefaultItemCode       string
	Address               Address
	Status                string // active, suspended, inactive
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
