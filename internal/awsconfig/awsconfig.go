// Package awsconfig builds the shared AWS SDK configuration both service
// clients are constructed from.
package awsconfig

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Options selects the account/region the resolution run targets
type Options struct {
	Region  string
	Profile string
	// Timeout bounds each HTTP call issued by the service clients. Retry
	// and backoff stay with the SDK defaults.
	Timeout time.Duration
}

// Load resolves the AWS configuration from the default credential chain,
// applying the region and shared-config profile overrides when set.
func Load(ctx context.Context, opts Options) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Timeout > 0 {
		loadOpts = append(loadOpts, config.WithHTTPClient(&http.Client{Timeout: opts.Timeout}))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return cfg, nil
}
