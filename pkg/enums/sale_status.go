package enums

import "fmt"

// SaleStatus tracks the lifecycle of a sale and its sales operation.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "en cours"
	SaleStatusFinalized SaleStatus = "finalisé"
	SaleStatusCancelled SaleStatus = "annulé"
)

var validSaleStatuses = []SaleStatus{
	SaleStatusPending,
	SaleStatusFinalized,
	SaleStatusCancelled,
}

// String implements fmt.Stringer.
func (s SaleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SaleStatus.
func (s SaleStatus) IsValid() bool {
	for _, candidate := range validSaleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a sale in status s may move to next.
// Only pending sales move, and only to a terminal status.
func (s SaleStatus) CanTransitionTo(next SaleStatus) bool {
	if s == next {
		return true
	}
	return s == SaleStatusPending && (next == SaleStatusFinalized || next == SaleStatusCancelled)
}

// ParseSaleStatus converts raw input into a SaleStatus.
func ParseSaleStatus(value string) (SaleStatus, error) {
	for _, candidate := range validSaleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale status %q", value)
}
