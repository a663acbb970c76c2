package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetStringFallback(t *testing.T) {
	assert.Equal(t, "fallback", GetString("STUDYTRACK_TEST_UNSET", "fallback"))

	t.Setenv("STUDYTRACK_TEST_SET", "value")
	assert.Equal(t, "value", GetString("STUDYTRACK_TEST_SET", "fallback"))
}

func TestGetIntInvalidValueFallsBack(t *testing.T) {
	t.Setenv("STUDYTRACK_TEST_INT", "not-a-number")
	assert.Equal(t, 42, GetInt("STUDYTRACK_TEST_INT", 42))

	t.Setenv("STUDYTRACK_TEST_INT", "7")
	assert.Equal(t, 7, GetInt("STUDYTRACK_TEST_INT", 42))
}

func TestGetStringSlice(t *testing.T) {
	t.Setenv("STUDYTRACK_TEST_SLICE", "a, b ,,c")
	assert.Equal(t, []string{"a", "b", "c"}, GetStringSlice("STUDYTRACK_TEST_SLICE", nil))

	fallback := []string{"x"}
	assert.Equal(t, fallback, GetStringSlice("STUDYTRACK_TEST_SLICE_UNSET", fallback))
}

func TestLoadAPIConfigDefaults(t *testing.T) {
	cfg := LoadAPIConfig()
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.NotEmpty(t, cfg.Addr)
	assert.NotEmpty(t, cfg.DatabaseURL)
}
