package dto

import (
	"fmt"

	"github.com/peepeep/peepeep-manager/internal/entity"
)

// WaitlistSignupResponse is served after a signup attempt. Duplicate
// signups return the existing entry with AlreadyExists set.
type WaitlistSignupResponse struct {
	Email         string `json:"email"`
	ReferralCode  string `json:"referralCode"`
	StatusURL     string `json:"statusUrl"`
	Position      int    `json:"position"`
	TotalSignups  int    `json:"totalSignups"`
	AlreadyExists bool   `json:"alreadyExists"`
}

// WaitlistStatusResponse is the status page payload.
type WaitlistStatusResponse struct {
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	Greeting     string     `json:"greeting"`
	Vehicle      string     `json:"vehicle"`
	Position     int        `json:"position"`
	TotalSignups int        `json:"totalSignups"`
	Referred     int        `json:"referred"`
	ReferralCode string     `json:"referralCode"`
	ReferralURL  string     `json:"referralUrl"`
	ShareLinks   ShareLinks `json:"shareLinks"`
}

// ShareLinks are the prebuilt social share targets of the status page.
type ShareLinks struct {
	WhatsApp string `json:"whatsapp"`
	Twitter  string `json:"twitter"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	Facebook string `json:"facebook"`
}

// VehicleLabel renders the "2021 Toyota Camry" display form of an entry's
// vehicle, or empty when no vehicle was captured.
func VehicleLabel(e *entity.WaitlistEntry) string {
	if !e.VehicleYear.Valid || !e.VehicleModel.Valid || e.VehicleModel.String == "" {
		return ""
	}
	return fmt.Sprintf("%d %s", e.VehicleYear.Int32, e.VehicleModel.String)
}
