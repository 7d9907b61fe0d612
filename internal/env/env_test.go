package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autoagenda/internal/env"
)

func TestGetAsStringElseAlt(t *testing.T) {
	t.Setenv("AUTOAGENDA_TEST_SET", "value")

	assert.Equal(t, "value", env.GetAsStringElseAlt("AUTOAGENDA_TEST_SET", "alt"))
	assert.Equal(t, "alt", env.GetAsStringElseAlt("AUTOAGENDA_TEST_UNSET", "alt"))
}

func TestGetAsStringElseAlt_EmptyCountsAsUnset(t *testing.T) {
	t.Setenv("AUTOAGENDA_TEST_EMPTY", "")

	assert.Equal(t, "alt", env.GetAsStringElseAlt("AUTOAGENDA_TEST_EMPTY", "alt"))
}

func TestGetAsIntElseAlt(t *testing.T) {
	t.Setenv("AUTOAGENDA_TEST_INT", "45")
	t.Setenv("AUTOAGENDA_TEST_NOT_INT", "ninety")

	assert.Equal(t, 45, env.GetAsIntElseAlt("AUTOAGENDA_TEST_INT", 60))
	assert.Equal(t, 60, env.GetAsIntElseAlt("AUTOAGENDA_TEST_NOT_INT", 60))
	assert.Equal(t, 60, env.GetAsIntElseAlt("AUTOAGENDA_TEST_INT_UNSET", 60))
}
