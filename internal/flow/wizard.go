package flow

import (
	"fmt"

	"github.com/peepeep/peepeep-manager/internal/entity"
	"github.com/shopspring/decimal"
)

// Onboarding wizard steps, in order.
const (
	WizardStepLocation = 1
	WizardStepType     = 2
	WizardStepRates    = 3
	WizardStepLicense  = 4

	WizardStepFirst = WizardStepLocation
	WizardStepLast  = WizardStepLicense
)

// WizardInput is the accumulated provider profile the wizard validates
// against when advancing a step.
type WizardInput struct {
	Address      string
	City         string
	Province     string
	PostalCode   string
	BusinessType entity.BusinessType
	HourlyRate   decimal.Decimal
	Services     []string
	LicenseURL   string
}

// ValidWizardStep reports whether step is a defined wizard step.
func ValidWizardStep(step int) bool {
	return step >= WizardStepFirst && step <= WizardStepLast
}

// validateWizardStep checks the data the given step collects.
func validateWizardStep(step int, in WizardInput) error {
	switch step {
	case WizardStepLocation:
		if in.Address == "" || in.City == "" || in.Province == "" || in.PostalCode == "" {
			return fmt.Errorf("address, city, province and postal code are required")
		}
	case WizardStepType:
		if !in.BusinessType.Valid() {
			return fmt.Errorf("unknown business type %q", in.BusinessType)
		}
	case WizardStepRates:
		if !in.HourlyRate.IsPositive() {
			return fmt.Errorf("hourly rate must be positive")
		}
		if len(in.Services) == 0 {
			return fmt.Errorf("at least one service is required")
		}
	case WizardStepLicense:
		if in.LicenseURL == "" {
			return fmt.Errorf("business license upload is required")
		}
	default:
		return fmt.Errorf("unknown wizard step %d", step)
	}
	return nil
}

// AdvanceWizard moves from cur to next. Only single-step forward and
// backward moves are allowed; moving forward requires the current step's
// data to validate. Completing the last step returns done=true.
func AdvanceWizard(cur, next int, in WizardInput) (done bool, err error) {
	if !ValidWizardStep(cur) {
		return false, fmt.Errorf("unknown wizard step %d", cur)
	}
	switch {
	case next == cur:
		return false, nil
	case next == cur-1:
		return false, nil
	case next == cur+1:
		if err := validateWizardStep(cur, in); err != nil {
			return false, err
		}
		return false, nil
	case next == WizardStepLast+1 && cur == WizardStepLast:
		if err := validateWizardStep(cur, in); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("cannot move from step %d to step %d", cur, next)
	}
}

// CompleteWizard validates every step at once, used when finishing the
// wizard from the last step.
func CompleteWizard(in WizardInput) error {
	for step := WizardStepFirst; step <= WizardStepLast; step++ {
		if err := validateWizardStep(step, in); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
	}
	return nil
}
