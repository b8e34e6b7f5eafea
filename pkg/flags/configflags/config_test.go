package configflags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bugzilla.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestGetConfig(t *testing.T) {
	flags := NewConfigFlags()
	flags.Path = writeConfigFile(t, `
url: https://bugzilla.example.com/xmlrpc.cgi
username: tester@example.com
password: fromfile
multicall: false
`)

	config, err := flags.GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://bugzilla.example.com/xmlrpc.cgi", config.URL)
	assert.Equal(t, "tester@example.com", config.Username)
	assert.Equal(t, "fromfile", config.Password)
	require.NotNil(t, config.Multicall)
	assert.False(t, *config.Multicall)
	assert.Nil(t, config.SSLVerify)
}

func TestGetConfigEnvPasswordWins(t *testing.T) {
	t.Setenv("BUGZILLA_PASSWORD", "fromenv")

	flags := NewConfigFlags()
	flags.Path = writeConfigFile(t, "password: fromfile\n")

	config, err := flags.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "fromenv", config.Password)
}

func TestGetConfigNoPath(t *testing.T) {
	flags := NewConfigFlags()

	config, err := flags.GetConfig()
	require.NoError(t, err)
	assert.Empty(t, config.URL)
}

func TestGetConfigMissingFile(t *testing.T) {
	flags := NewConfigFlags()
	flags.Path = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := flags.GetConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not load config")
}
