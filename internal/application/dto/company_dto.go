package dto

import "time"

// AddressDTO dirección en el formato de la ETA.
type AddressDTO struct {
	BranchID              string `json:"branch_id"`
	Country               string `json:"country" validate:"required,len=2"`
	Governate             string `json:"governate" validate:"required"`
	RegionCity            string `json:"region_city" validate:"required"`
	Street                string `json:"street" validate:"required"`
	BuildingNumber        string `json:"building_number" validate:"required"`
	PostalCode            string `json:"postal_code,omitempty"`
	Floor                 string `json:"floor,omitempty"`
	Room                  string `json:"room,omitempty"`
	Landmark              string `json:"landmark,omitempty"`
	AdditionalInformation string `json:"additional_information,omitempty"`
}

// CreateCompanyRequest entrada para crear una empresa emisora.
type CreateCompanyRequest struct {
	Name                  string     `json:"name" validate:"required,min=1,max=200"`
	TaxRegistrationNumber string     `json:"tax_registration_number" validate:"required"`
	ActivityCode          string     `json:"activity_code" validate:"required"`
	DefaultItemType       string     `json:"default_item_type" validate:"omitempty,oneof=GS1 EGS"`
	DefaultItemCode       string     `json:"default_item_code"`
	Address               AddressDTO `json:"address"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	TaxRegistrationNumber string     `json:"tax_registration_number"`
	ActivityCode          string     `json:"activity_code"`
	DefaultItemType       string     `json:"default_item_type,omitempty"`
	DefaultItemCode       string     `json:"default_item_code,omitempty"`
	Address               AddressDTO `json:"address"`
	Status                string     `json:"status"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// SetETACredentialsRequest credenciales del portal ETA; el secreto se guarda cifrado.
type SetETACredentialsRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	Environment  string `json:"environment" validate:"omitempty,oneof=preprod production"`
}

// ETACredentialsResponse confirma el registro sin devolver el secreto.
type ETACredentialsResponse struct {
	CompanyID   string    `json:"company_id"`
	ClientID    string    `json:"client_id"`
	Environment string    `json:"environment"`
	UpdatedAt   time.Time `json:"updated_at"`
}
