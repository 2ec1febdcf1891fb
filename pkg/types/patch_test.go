package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchDistinguishesAbsentFromNull(t *testing.T) {
	type body struct {
		BuyerID NullableUUID `json:"buyer_id"`
	}

	var got body
	require.NoError(t, json.Unmarshal([]byte(`{"buyer_id":"00000000-0000-0000-0000-000000000001"}`), &got))
	assert.True(t, got.BuyerID.Set)
	require.NotNil(t, got.BuyerID.Value)

	got = body{}
	require.NoError(t, json.Unmarshal([]byte(`{"buyer_id":null}`), &got))
	assert.True(t, got.BuyerID.Set)
	assert.Nil(t, got.BuyerID.Value)

	got = body{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &got))
	assert.False(t, got.BuyerID.Set)

	assert.Error(t, json.Unmarshal([]byte(`{"buyer_id":"pas-un-uuid"}`), &got))
}

func TestPatchApply(t *testing.T) {
	existing := uuid.New()
	target := &existing

	NullableUUID{}.Apply(&target)
	require.NotNil(t, target)
	assert.Equal(t, existing, *target)

	PatchTo[uuid.UUID](nil).Apply(&target)
	assert.Nil(t, target)

	next := uuid.New()
	PatchTo(&next).Apply(&target)
	require.NotNil(t, target)
	assert.Equal(t, next, *target)

	raw, err := json.Marshal(PatchTo(&next))
	require.NoError(t, err)
	assert.JSONEq(t, `"`+next.String()+`"`, string(raw))
}

func TestPatchWorksForStrings(t *testing.T) {
	var p Patch[string]
	require.NoError(t, json.Unmarshal([]byte(`"bon"`), &p))
	var dst *string
	p.Apply(&dst)
	require.NotNil(t, dst)
	assert.Equal(t, "bon", *dst)
}
