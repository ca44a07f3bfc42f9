package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spotdemo4/mojo-chat/internal/typing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*cobra.Command, *flags) {
	t.Helper()

	f := &flags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))

	return cmd, f
}

func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("MC_LOG_FILE", filepath.Join(dir, "chat.log"))
	for _, k := range []string{"MC_URL", "MC_TYPING_INTERVAL", "MC_TIMEOUT", "MC_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	return dir
}

func TestConfigDefaults(t *testing.T) {
	isolate(t)
	cmd, f := parse(t)

	c, err := getConfig(cmd, f)
	require.NoError(t, err)

	assert.Equal(t, defaultURL, c.url.String())
	assert.Equal(t, typing.DefaultInterval, c.typingInterval)
	assert.Equal(t, defaultTimeout, c.timeout)
	assert.Equal(t, "info", c.logLevel)
}

func TestConfigFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MC_URL", "http://backend:8080")
	t.Setenv("MC_TYPING_INTERVAL", "5ms")
	t.Setenv("MC_LOG_LEVEL", "debug")
	t.Setenv("MC_HEADER_Authorization", "Bearer t")

	cmd, f := parse(t)
	c, err := getConfig(cmd, f)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8080", c.url.String())
	assert.Equal(t, 5*time.Millisecond, c.typingInterval)
	assert.Equal(t, "debug", c.logLevel)
	assert.Equal(t, "Bearer t", c.headers["Authorization"])
}

func TestConfigFlagsWin(t *testing.T) {
	isolate(t)
	t.Setenv("MC_URL", "http://backend:8080")
	t.Setenv("MC_TIMEOUT", "1m")

	cmd, f := parse(t, "--url", "http://flag:9000", "--timeout", "30s", "--header", "X-Team=a=b", "--export", "out.html")
	c, err := getConfig(cmd, f)
	require.NoError(t, err)

	assert.Equal(t, "http://flag:9000", c.url.String())
	assert.Equal(t, 30*time.Second, c.timeout)
	assert.Equal(t, "a=b", c.headers["X-Team"])
	assert.Equal(t, "out.html", c.export)
}

func TestConfigEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mojo-chat.env"), []byte("MC_TIMEOUT=2m\n"), 0o600))

	// The env file only fills unset variables, and this one is set empty
	os.Unsetenv("MC_TIMEOUT")
	t.Cleanup(func() { os.Unsetenv("MC_TIMEOUT") })

	cmd, f := parse(t)
	c, err := getConfig(cmd, f)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, c.timeout)
}

func TestConfigErrors(t *testing.T) {
	isolate(t)

	cmd, f := parse(t, "--url", "localhost")
	_, err := getConfig(cmd, f)
	assert.Error(t, err)

	cmd, f = parse(t, "--header", "novalue")
	_, err = getConfig(cmd, f)
	assert.Error(t, err)
}
