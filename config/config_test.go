package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("secret")
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultVersion, cfg.Version)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, (&Config{Token: "x", PageSize: -1}).Validate())
	assert.Error(t, (&Config{Token: "x", PageSize: MaxPageSize + 1}).Validate())
	assert.NoError(t, (&Config{Token: "x", PageSize: MaxPageSize}).Validate())
	assert.NoError(t, (&Config{Token: "x"}).Validate())
}

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "from-env")
	t.Setenv("NOTION_PAGE_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
}
