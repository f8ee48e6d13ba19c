package dto

import (
	"yahveh/internal/domain/catalogs/client"
)

// ClientRequest is the payload for creating or updating a client.
type ClientRequest struct {
	ZoneID       int32  `json:"zoneId" binding:"required"`
	TaxID        string `json:"taxId"`
	BusinessName string `json:"businessName"`
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	Reference    string `json:"reference"`
	Notes        string `json:"notes"`
}

// ToInput converts the request to the service input.
func (r ClientRequest) ToInput() client.Input {
	return client.Input{
		ZoneID:       r.ZoneID,
		TaxID:        r.TaxID,
		BusinessName: r.BusinessName,
		Name:         r.Name,
		Address:      r.Address,
		Reference:    r.Reference,
		Notes:        r.Notes,
	}
}
