package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Patch is a partial-update field that tells "absent" apart from an
// explicit JSON null. Set is false when the key was missing.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// NullableUUID clears or replaces an optional reference, e.g. a sale's buyer.
type NullableUUID = Patch[uuid.UUID]

// PatchTo builds a present field; a nil value means an explicit null.
func PatchTo[T any](v *T) Patch[T] {
	return Patch[T]{Set: true, Value: v}
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		p.Set, p.Value = true, nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Set, p.Value = true, &v
	return nil
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Set || p.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*p.Value)
}

// Apply copies the field into *target when it was sent.
func (p Patch[T]) Apply(target **T) {
	if !p.Set {
		return
	}
	if p.Value == nil {
		*target = nil
		return
	}
	v := *p.Value
	*target = &v
}
