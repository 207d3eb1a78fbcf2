package feed

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"shelfwatch/internal/config"

	"github.com/rs/zerolog"
)

// ProxyLoader loads a proxy address list from some source.
type ProxyLoader interface {
	Load(ctx context.Context) ([]string, error)
}

// fileProxyLoader reads one proxy address per line from a local file and
// rewrites the file with dead entries removed.
type fileProxyLoader struct {
	path   string
	logger zerolog.Logger
}

// NewFileProxyLoader creates a loader for a local proxy list file.
func NewFileProxyLoader(path string, logger zerolog.Logger) ProxyLoader {
	return &fileProxyLoader{
		path:   path,
		logger: logger.With().Str("component", "proxy-loader").Logger(),
	}
}

func (l *fileProxyLoader) Load(_ context.Context) ([]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", l.path).Msg("failed to open proxy file")
		return nil, fmt.Errorf("failed to open proxy file %s: %w", l.path, err)
	}
	defer file.Close()

	var proxies []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			proxies = append(proxies, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading proxy file %s: %w", l.path, err)
	}

	valid := validProxies(proxies, l.logger)
	if len(valid) != len(proxies) {
		// Rewrite the list so dead entries do not come back next run.
		if err := l.save(valid); err != nil {
			l.logger.Warn().Err(err).Msg("failed to rewrite cleaned proxy file")
		}
	}

	l.logger.Info().
		Str("file", l.path).
		Int("valid", len(valid)).
		Msg("proxy file loaded")
	return valid, nil
}

func (l *fileProxyLoader) save(proxies []string) error {
	var sb strings.Builder
	for _, p := range proxies {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return os.WriteFile(l.path, []byte(sb.String()), 0o644)
}

// validProxies drops entries that do not parse as absolute proxy URLs.
func validProxies(proxies []string, logger zerolog.Logger) []string {
	valid := make([]string, 0, len(proxies))
	for _, p := range proxies {
		u, err := url.Parse(p)
		if err != nil || u.Scheme == "" || u.Host == "" {
			logger.Warn().Str("proxy", p).Msg("removing malformed proxy entry")
			continue
		}
		valid = append(valid, p)
	}
	return valid
}

// NewHTTPClient builds the outbound HTTP client for the feed, routing
// through the first configured proxy when a proxy list is available.
// Running without a proxy is not an error.
func NewHTTPClient(ctx context.Context, cfg config.ProxyConfig, timeout time.Duration, logger zerolog.Logger) *http.Client {
	client := &http.Client{Timeout: timeout}

	var loader ProxyLoader
	switch {
	case cfg.S3Enabled:
		s3Loader, err := NewS3ProxyLoader(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Key, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 proxy loader, running without a proxy")
			return client
		}
		loader = s3Loader
	case cfg.File != "":
		loader = NewFileProxyLoader(cfg.File, logger)
	default:
		return client
	}

	proxies, err := loader.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load proxy list, running without a proxy")
		return client
	}
	if len(proxies) == 0 {
		logger.Warn().Msg("no valid proxies found, running without a proxy")
		return client
	}

	proxyURL, err := url.Parse(proxies[0])
	if err != nil {
		logger.Warn().Err(err).Msg("invalid proxy address, running without a proxy")
		return client
	}

	logger.Info().Str("proxy", proxies[0]).Msg("using proxy")
	client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	return client
}
