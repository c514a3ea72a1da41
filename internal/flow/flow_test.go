package flow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

func TestNextWaitlistStep(t *testing.T) {
	year := time.Now().Year()

	next, err := NextWaitlistStep(StepVehicleEntry, VehicleInput{Year: year, Make: "Honda", Model: "Civic"})
	require.NoError(t, err)
	assert.Equal(t, StepEmailEntry, next)

	_, err = NextWaitlistStep(StepVehicleEntry, VehicleInput{Year: year, Make: "Honda"})
	assert.Error(t, err)

	_, err = NextWaitlistStep(StepVehicleEntry, VehicleInput{Year: 1980, Make: "Honda", Model: "Civic"})
	assert.Error(t, err)

	next, err = NextWaitlistStep(StepEmailEntry, VehicleInput{})
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, next)

	next, err = NextWaitlistStep(StepSuccess, VehicleInput{})
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, next)

	_, err = NextWaitlistStep(WaitlistStep("bogus"), VehicleInput{})
	assert.Error(t, err)
}

func TestResolveModel(t *testing.T) {
	model, err := ResolveModel(VehicleInput{Make: "Honda", Model: "Civic"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Civic", model)

	// escape entry substitutes the typed value
	model, err = ResolveModel(VehicleInput{Make: "Honda", Model: "Other"}, "Kei Truck")
	require.NoError(t, err)
	assert.Equal(t, "Kei Truck", model)

	_, err = ResolveModel(VehicleInput{Make: "Honda", Model: "Other"}, "")
	assert.Error(t, err)

	_, err = ResolveModel(VehicleInput{Make: "Honda", Model: "Model S"}, "")
	assert.Error(t, err)

	// unknown make accepts any model
	model, err = ResolveModel(VehicleInput{Make: "Koenigsegg", Model: "Jesko"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Jesko", model)
}

func validWizardInput() WizardInput {
	return WizardInput{
		Address:      "123 Main St",
		City:         "Montreal",
		Province:     "QC",
		PostalCode:   "H2X 1Y4",
		BusinessType: entity.BusinessTypeShop,
		HourlyRate:   decimal.NewFromInt(95),
		Services:     []string{"oil_change"},
		LicenseURL:   "https://files.peepeep.com/licenses/abc.pdf",
	}
}

func TestAdvanceWizard(t *testing.T) {
	in := validWizardInput()

	done, err := AdvanceWizard(WizardStepLocation, WizardStepType, in)
	require.NoError(t, err)
	assert.False(t, done)

	// back moves never validate
	done, err = AdvanceWizard(WizardStepType, WizardStepLocation, WizardInput{})
	require.NoError(t, err)
	assert.False(t, done)

	// staying put is a no-op
	_, err = AdvanceWizard(WizardStepRates, WizardStepRates, WizardInput{})
	assert.NoError(t, err)

	// skipping is rejected
	_, err = AdvanceWizard(WizardStepLocation, WizardStepRates, in)
	assert.Error(t, err)

	// forward requires the current step's data
	_, err = AdvanceWizard(WizardStepLocation, WizardStepType, WizardInput{City: "Montreal"})
	assert.Error(t, err)

	_, err = AdvanceWizard(WizardStepRates, WizardStepLicense, WizardInput{HourlyRate: decimal.NewFromInt(-5), Services: []string{"x"}})
	assert.Error(t, err)

	// finishing the last step
	done, err = AdvanceWizard(WizardStepLicense, WizardStepLast+1, in)
	require.NoError(t, err)
	assert.True(t, done)

	_, err = AdvanceWizard(WizardStepLicense, WizardStepLast+1, WizardInput{})
	assert.Error(t, err)

	_, err = AdvanceWizard(0, WizardStepLocation, in)
	assert.Error(t, err)
}

func TestCompleteWizard(t *testing.T) {
	assert.NoError(t, CompleteWizard(validWizardInput()))

	in := validWizardInput()
	in.LicenseURL = ""
	assert.Error(t, CompleteWizard(in))
}

func TestNextLoginMode(t *testing.T) {
	assert.Equal(t, ModeLoggedIn, NextLoginMode(ModeLogin, nil))
	assert.Equal(t, ModeClaim, NextLoginMode(ModeLogin, gerr.ErrAccountNotClaimed))
	assert.Equal(t, ModeLogin, NextLoginMode(ModeLogin, gerr.ErrInvalidCredentials))
	assert.Equal(t, ModeGuest, NextLoginMode(ModeLogin, gerr.ErrProviderNotFound))
}
