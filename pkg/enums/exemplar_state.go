package enums

import "fmt"

// ExemplarState describes the condition of one deposited copy of a game.
type ExemplarState string

const (
	ExemplarStateNew      ExemplarState = "neuf"
	ExemplarStateVeryGood ExemplarState = "très bon"
	ExemplarStateGood     ExemplarState = "bon"
	ExemplarStateUsed     ExemplarState = "occasion"
)

var validExemplarStates = []ExemplarState{
	ExemplarStateNew,
	ExemplarStateVeryGood,
	ExemplarStateGood,
	ExemplarStateUsed,
}

// ExemplarStates returns the vocabulary in display order.
func ExemplarStates() []ExemplarState {
	out := make([]ExemplarState, len(validExemplarStates))
	copy(out, validExemplarStates)
	return out
}

// String implements fmt.Stringer.
func (e ExemplarState) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExemplarState.
func (e ExemplarState) IsValid() bool {
	for _, candidate := range validExemplarStates {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExemplarState converts raw input into an ExemplarState.
func ParseExemplarState(value string) (ExemplarState, error) {
	for _, candidate := range validExemplarStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid exemplar state %q", value)
}
