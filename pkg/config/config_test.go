package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Token   string        `envconfig:"TOKEN" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type validatedConfig struct {
	Mode string `envconfig:"MODE" default:"bad"`
}

func (c *validatedConfig) Validate() error {
	if c.Mode == "bad" {
		return errors.New("mode is bad")
	}
	return nil
}

func TestNewReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_TOKEN=from-file\nCFGTEST_TIMEOUT=2s\n"), 0o600))

	SetEnvFile(path)
	t.Cleanup(func() {
		SetEnvFile("")
		_ = os.Unsetenv("CFGTEST_TOKEN")
		_ = os.Unsetenv("CFGTEST_TIMEOUT")
	})

	conf, err := New[sampleConfig]("CFGTEST")
	require.NoError(t, err)
	assert.Equal(t, "from-file", conf.Token)
	assert.Equal(t, 2*time.Second, conf.Timeout)
}

func TestNewEnvironmentWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGWIN_TOKEN=from-file\n"), 0o600))

	t.Setenv("CFGWIN_TOKEN", "from-env")
	SetEnvFile(path)
	t.Cleanup(func() { SetEnvFile("") })

	conf, err := New[sampleConfig]("CFGWIN")
	require.NoError(t, err)
	assert.Equal(t, "from-env", conf.Token)
	assert.Equal(t, 5*time.Second, conf.Timeout)
}

func TestNewMissingRequiredFailsFast(t *testing.T) {
	_, err := New[sampleConfig]("CFGMISSING")
	require.Error(t, err)
	assert.ErrorContains(t, err, "CFGMISSING_TOKEN")
}

func TestNewRunsValidator(t *testing.T) {
	_, err := New[validatedConfig]("CFGVALIDATE")
	require.Error(t, err)
	assert.ErrorContains(t, err, "mode is bad")

	t.Setenv("CFGVALIDATE_MODE", "good")
	conf, err := New[validatedConfig]("CFGVALIDATE")
	require.NoError(t, err)
	assert.Equal(t, "good", conf.Mode)
}
