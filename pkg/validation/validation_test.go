package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmailMatchesRequestRule(t *testing.T) {
	assert.True(t, Email("noe@example.fr"))
	assert.False(t, Email("Noé <noe@x.fr>"))
	assert.False(t, Email("noe"))
	assert.False(t, Email(""))
}

func TestSharedKnowsDomainTags(t *testing.T) {
	type line struct {
		State string          `json:"state" validate:"exemplar_state"`
		Price decimal.Decimal `json:"price" validate:"gte=0"`
	}
	assert.NoError(t, Shared().Struct(line{State: "neuf", Price: decimal.NewFromInt(3)}))
	assert.Error(t, Shared().Struct(line{State: "abîmé", Price: decimal.NewFromInt(3)}))
	assert.Error(t, Shared().Struct(line{State: "bon", Price: decimal.NewFromInt(-1)}))
}
