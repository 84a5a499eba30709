// Package kms lists KMS keys and aliases and classifies the customer-managed
// keys an operator may choose for snapshot encryption.
package kms

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskms "github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"golang.org/x/sync/errgroup"

	"rds-snapshot-copy/internal/logging"
	"rds-snapshot-copy/internal/paginate"
)

// Client is the subset of the KMS API the service consumes
type Client interface {
	awskms.ListKeysAPIClient
	awskms.ListAliasesAPIClient
}

// Service queries the key-management service
type Service struct {
	client Client
	logger *logging.Logger
}

// NewService creates a Service backed by a real KMS client
func NewService(cfg aws.Config, logger *logging.Logger) *Service {
	return NewServiceWithClient(awskms.NewFromConfig(cfg), logger)
}

// NewServiceWithClient creates a Service with the given client. Used by
// tests to substitute a scripted client.
func NewServiceWithClient(client Client, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Service{client: client, logger: logger}
}

// ListCustomerManagedKeys fetches all keys and all aliases in parallel, then
// classifies the keys, returning only the customer-managed ones annotated
// with their alias. Either fetch failing short-circuits the other.
func (s *Service) ListCustomerManagedKeys(ctx context.Context) ([]Key, error) {
	var (
		keys    []types.KeyListEntry
		aliases []types.AliasListEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		keys, err = s.listKeys(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		aliases, err = s.listAliases(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	classified, err := classifyKeys(keys, aliases)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"keys":             len(keys),
		"aliases":          len(aliases),
		"customer_managed": len(classified),
	}).Debug("Classified KMS keys")

	return classified, nil
}

// listKeys drains the ListKeys paginator
func (s *Service) listKeys(ctx context.Context) ([]types.KeyListEntry, error) {
	start := time.Now()
	p := awskms.NewListKeysPaginator(s.client, &awskms.ListKeysInput{})

	keys, err := paginate.All(ctx, func(ctx context.Context) ([]types.KeyListEntry, bool, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		return page.Keys, p.HasMorePages(), nil
	})

	s.logger.LogAPIListing("kms", "ListKeys", len(keys), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// listAliases drains the ListAliases paginator
func (s *Service) listAliases(ctx context.Context) ([]types.AliasListEntry, error) {
	start := time.Now()
	p := awskms.NewListAliasesPaginator(s.client, &awskms.ListAliasesInput{})

	aliases, err := paginate.All(ctx, func(ctx context.Context) ([]types.AliasListEntry, bool, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		return page.Aliases, p.HasMorePages(), nil
	})

	s.logger.LogAPIListing("kms", "ListAliases", len(aliases), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	return aliases, nil
}
