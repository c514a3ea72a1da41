// Package flow holds the server-side state machines driving the signup
// funnels. The machines are pure: transitions take the current state plus
// input and return the next state or an error, so handlers stay thin and
// every path is testable without a database.
package flow

import (
	"fmt"

	"github.com/peepeep/peepeep-manager/internal/catalog"
)

// WaitlistStep is a step of the consumer waitlist funnel.
type WaitlistStep string

const (
	StepVehicleEntry WaitlistStep = "vehicle_entry"
	StepEmailEntry   WaitlistStep = "email_entry"
	StepSuccess      WaitlistStep = "success"
)

// VehicleInput is what the funnel collects on the vehicle step.
type VehicleInput struct {
	Year  int
	Make  string
	Model string
}

// ResolveModel normalizes the model choice. Picking the catalog escape
// entry substitutes the free-typed value; a known make keeps only models
// the catalog lists for it.
func ResolveModel(in VehicleInput, typed string) (string, error) {
	model := in.Model
	if model == catalog.OtherValue {
		model = typed
	}
	if model == "" {
		return "", fmt.Errorf("model is required")
	}
	if in.Model != catalog.OtherValue && catalog.HasMake(in.Make) {
		found := false
		for _, m := range catalog.Models(in.Make) {
			if m == model {
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("model %q is not listed for make %q", model, in.Make)
		}
	}
	return model, nil
}

// NextWaitlistStep advances the funnel. The vehicle step requires a full
// vehicle selection; the email step completes the funnel.
func NextWaitlistStep(cur WaitlistStep, in VehicleInput) (WaitlistStep, error) {
	switch cur {
	case StepVehicleEntry:
		if in.Year == 0 || in.Make == "" || in.Model == "" {
			return cur, fmt.Errorf("all vehicle details are required")
		}
		if !catalog.ValidYear(in.Year) {
			return cur, fmt.Errorf("unsupported vehicle year %d", in.Year)
		}
		return StepEmailEntry, nil
	case StepEmailEntry:
		return StepSuccess, nil
	case StepSuccess:
		return StepSuccess, nil
	default:
		return cur, fmt.Errorf("unknown waitlist step %q", cur)
	}
}
