// Package client provides the client catalog (cliente).
package client

import (
	"yahveh/internal/core/apperror"
)

// Client is a catalog entry with its zone denormalized and the count of
// delivery notes the procedure layer computes.
type Client struct {
	ClientID     int32  `json:"clientId"`
	ZoneID       int32  `json:"zoneId"`
	ZoneLabel    string `json:"zoneLabel"`
	TaxID        string `json:"taxId"`
	BusinessName string `json:"businessName"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Reference    string `json:"reference,omitempty"`
	Notes        string `json:"notes,omitempty"`
	TotalNotes   int32  `json:"totalNotes"`
	CreatedBy    int32  `json:"createdBy"`
}

// Input carries the caller-supplied fields for create and update.
type Input struct {
	ZoneID       int32
	TaxID        string
	BusinessName string
	Name         string
	Address      string
	Reference    string
	Notes        string
}

// Validate checks the write request.
func (in *Input) Validate() error {
	if in.Name == "" {
		return apperror.NewValidation("client name is required").
			WithDetail("field", "name")
	}
	if in.ZoneID <= 0 {
		return apperror.NewValidation("zone is required").
			WithDetail("field", "zoneId")
	}
	return nil
}
