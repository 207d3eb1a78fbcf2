package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shelfwatch/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProxyLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.txt")
	content := "http://proxy1.example.com:8080\n\nhttp://proxy2.example.com:3128\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader := NewFileProxyLoader(path, zerolog.Nop())
	proxies, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://proxy1.example.com:8080",
		"http://proxy2.example.com:3128",
	}, proxies)
}

func TestFileProxyLoader_RewritesCleanedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.txt")
	content := "http://good.example.com:8080\nnot a proxy\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader := NewFileProxyLoader(path, zerolog.Nop())
	proxies, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"http://good.example.com:8080"}, proxies)

	// Dead entries must not come back on the next run.
	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://good.example.com:8080\n", string(rewritten))
}

func TestFileProxyLoader_MissingFile(t *testing.T) {
	loader := NewFileProxyLoader(filepath.Join(t.TempDir(), "absent.txt"), zerolog.Nop())

	_, err := loader.Load(context.Background())

	assert.Error(t, err)
}

func TestNewHTTPClient_NoProxyConfigured(t *testing.T) {
	client := NewHTTPClient(context.Background(), config.ProxyConfig{}, 5*time.Second, zerolog.Nop())

	require.NotNil(t, client)
	assert.Nil(t, client.Transport)
	assert.Equal(t, 5*time.Second, client.Timeout)
}

func TestNewHTTPClient_WithProxyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.txt")
	require.NoError(t, os.WriteFile(path, []byte("http://proxy1.example.com:8080\n"), 0o644))

	client := NewHTTPClient(context.Background(), config.ProxyConfig{File: path}, 5*time.Second, zerolog.Nop())

	require.NotNil(t, client)
	assert.NotNil(t, client.Transport, "proxy transport should be installed")
}

func TestNewHTTPClient_UnreadableProxyFileDegrades(t *testing.T) {
	cfg := config.ProxyConfig{File: filepath.Join(t.TempDir(), "absent.txt")}

	client := NewHTTPClient(context.Background(), cfg, 5*time.Second, zerolog.Nop())

	require.NotNil(t, client)
	assert.Nil(t, client.Transport, "falls back to a direct client")
}
