package booking

import "fmt"

// CheckoutState is the position of a booking form in the checkout sequence.
type CheckoutState string

const (
	StateCollectingDetails     CheckoutState = "collecting_details"
	StateAddressesResolved     CheckoutState = "addresses_resolved"
	StateQuoted                CheckoutState = "quoted"
	StateAwaitingPaymentChoice CheckoutState = "awaiting_payment_choice"
	StatePayPalFlow            CheckoutState = "paypal_flow"
	StateManualTransferFlow    CheckoutState = "manual_transfer_flow"
	StateCompleted             CheckoutState = "completed"
)

// validTransitions defines the checkout state machine. Completed resets to
// CollectingDetails once the draft has been cleared.
var validTransitions = map[CheckoutState][]CheckoutState{
	StateCollectingDetails:     {StateAddressesResolved, StateAwaitingPaymentChoice},
	StateAddressesResolved:     {StateCollectingDetails, StateQuoted, StateAwaitingPaymentChoice},
	StateQuoted:                {StateCollectingDetails, StateAddressesResolved, StateAwaitingPaymentChoice},
	StateAwaitingPaymentChoice: {StateCollectingDetails, StateAddressesResolved, StateQuoted, StatePayPalFlow, StateManualTransferFlow},
	StatePayPalFlow:            {StateAwaitingPaymentChoice, StateCompleted},
	StateManualTransferFlow:    {StateAwaitingPaymentChoice, StateCompleted},
	StateCompleted:             {StateCollectingDetails},
}

// IsValid returns true if the state is a recognized checkout state.
func (s CheckoutState) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this state to the target is allowed.
func (s CheckoutState) CanTransitionTo(target CheckoutState) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsPaymentInProgress reports whether a payment path has been entered.
func (s CheckoutState) IsPaymentInProgress() bool {
	return s == StatePayPalFlow || s == StateManualTransferFlow
}

// String returns the string representation of the state.
func (s CheckoutState) String() string {
	return string(s)
}

// ParseCheckoutState converts a string to a CheckoutState, returning an error if invalid.
func ParseCheckoutState(s string) (CheckoutState, error) {
	state := CheckoutState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid checkout state: %s", s)
	}
	return state, nil
}
