package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("DEPOTVENTE_TEST_VALUE", "   ")
	assert.Equal(t, "fallback", Get("DEPOTVENTE_TEST_VALUE", "fallback"))

	t.Setenv("DEPOTVENTE_TEST_VALUE", " 8080 ")
	assert.Equal(t, "8080", Get("DEPOTVENTE_TEST_VALUE", "fallback"))
}

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("DEPOTVENTE_TEST_A", "")
	t.Setenv("DEPOTVENTE_TEST_B", "b")
	t.Setenv("DEPOTVENTE_TEST_C", "c")
	assert.Equal(t, "b", First("x", "DEPOTVENTE_TEST_A", "DEPOTVENTE_TEST_B", "DEPOTVENTE_TEST_C"))
	assert.Equal(t, "x", First("x", "DEPOTVENTE_TEST_A"))
}
