package feed

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3ProxyLoader reads the proxy list from an S3 object, one address per
// line. Unlike the file loader it never rewrites the source.
type s3ProxyLoader struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3ProxyLoader creates an S3-backed proxy list loader.
func NewS3ProxyLoader(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (ProxyLoader, error) {
	logger = logger.With().Str("component", "s3-proxy-loader").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Msg("S3 proxy loader initialised")

	return &s3ProxyLoader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

func (l *s3ProxyLoader) Load(ctx context.Context) ([]string, error) {
	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		l.logger.Error().Err(err).Str("key", l.key).Msg("failed to get proxy list from S3")
		return nil, fmt.Errorf("failed to get proxy list from S3: %w", err)
	}
	defer result.Body.Close()

	var proxies []string
	scanner := bufio.NewScanner(result.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			proxies = append(proxies, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading proxy list from S3: %w", err)
	}

	valid := validProxies(proxies, l.logger)
	l.logger.Info().Int("valid", len(valid)).Msg("proxy list loaded from S3")
	return valid, nil
}
