package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load()
	assert.Equal(t, "8888", cfg.Port)
	assert.Equal(t, "./data/mrfxp.db", cfg.DBPath)
	assert.Equal(t, "localhost", cfg.Domain)
	assert.Equal(t, "/mrfxp", cfg.BasePath)
	assert.Equal(t, 20.0, cfg.WSRate)
	assert.Equal(t, 40, cfg.WSBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MRFXP_PORT", "9000")
	t.Setenv("MRFXP_SECRET", "s3cret")
	t.Setenv("MRFXP_WS_RATE", "2.5")
	t.Setenv("MRFXP_WS_BURST", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, 2.5, cfg.WSRate)
	assert.Equal(t, 40, cfg.WSBurst)
}
