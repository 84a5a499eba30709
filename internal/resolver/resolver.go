// Package resolver turns optional explicit identifiers into definite ones:
// an explicit value wins, otherwise candidates are listed and the operator
// chooses.
package resolver

import (
	"context"
	"fmt"

	apperrors "rds-snapshot-copy/internal/errors"
	"rds-snapshot-copy/internal/kms"
	"rds-snapshot-copy/internal/logging"
	"rds-snapshot-copy/internal/prompt"
	"rds-snapshot-copy/internal/rds"
)

// DBType selects which resource namespace a resolution targets
type DBType string

const (
	// DBTypeInstance targets standalone database instances
	DBTypeInstance DBType = "instance"
	// DBTypeCluster targets database clusters
	DBTypeCluster DBType = "cluster"
)

// ParseDBType validates a db-type flag value
func ParseDBType(value string) (DBType, error) {
	switch DBType(value) {
	case DBTypeInstance, DBTypeCluster:
		return DBType(value), nil
	default:
		return "", apperrors.NewAppError(apperrors.ErrorTypeValidation,
			fmt.Sprintf("invalid db-type %q: must be %q or %q", value, DBTypeInstance, DBTypeCluster), nil)
	}
}

// DatabaseLister is the database-service surface the resolver needs
type DatabaseLister interface {
	ListStandaloneInstances(ctx context.Context) ([]string, error)
	ListClusters(ctx context.Context) ([]string, error)
	ListClusterSnapshots(ctx context.Context, clusterID string) ([]rds.Snapshot, error)
}

// KeyLister is the key-service surface the resolver needs
type KeyLister interface {
	ListCustomerManagedKeys(ctx context.Context) ([]kms.Key, error)
}

// Resolver resolves the parameters of a snapshot-copy run
type Resolver struct {
	databases DatabaseLister
	keys      KeyLister
	prompter  prompt.Prompter
	logger    *logging.Logger
}

// New creates a Resolver
func New(databases DatabaseLister, keys KeyLister, prompter prompt.Prompter, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Resolver{
		databases: databases,
		keys:      keys,
		prompter:  prompter,
		logger:    logger,
	}
}

// ResolveResourceID returns the explicit identifier when supplied; otherwise
// it lists instances or clusters per dbType and prompts the operator.
func (r *Resolver) ResolveResourceID(ctx context.Context, explicit string, dbType DBType) (string, error) {
	if explicit != "" {
		r.logger.WithField("db_identifier", explicit).Debug("Using explicit database identifier")
		return explicit, nil
	}

	var (
		identifiers []string
		kind        string
		err         error
	)
	switch dbType {
	case DBTypeCluster:
		kind = "database clusters"
		identifiers, err = r.databases.ListClusters(ctx)
	default:
		kind = "database instances"
		identifiers, err = r.databases.ListStandaloneInstances(ctx)
	}
	if err != nil {
		return "", err
	}
	if len(identifiers) == 0 {
		return "", apperrors.NewEmptyCandidatesError(kind)
	}

	chosen, err := r.prompter.Choose("Please choose a resource", identifiers)
	if err != nil {
		return "", fmt.Errorf("choosing a resource: %w", err)
	}
	return chosen, nil
}

// ResolveKeyID returns the explicit key id when supplied; otherwise it
// classifies the customer-managed keys and prompts over their labels.
func (r *Resolver) ResolveKeyID(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		r.logger.WithField("kms_key_id", explicit).Debug("Using explicit KMS key id")
		return explicit, nil
	}

	keys, err := r.keys.ListCustomerManagedKeys(ctx)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", apperrors.NewEmptyCandidatesError("customer-managed keys")
	}

	labels, byLabel := labelKeys(keys)

	chosen, err := r.prompter.Choose("Choose a key to use for snapshot encryption", labels)
	if err != nil {
		return "", fmt.Errorf("choosing an encryption key: %w", err)
	}
	return byLabel[chosen], nil
}

// labelKeys builds the prompt labels for a key list, preserving key order.
// A label is the key's alias when present, its id otherwise. Two keys
// sharing an alias text would collide, so later duplicates are
// disambiguated with the key id rather than silently shadowing the first.
func labelKeys(keys []kms.Key) ([]string, map[string]string) {
	labels := make([]string, 0, len(keys))
	byLabel := make(map[string]string, len(keys))

	for _, key := range keys {
		label := key.Label()
		if _, taken := byLabel[label]; taken {
			label = fmt.Sprintf("%s (%s)", key.Label(), key.ID)
		}
		labels = append(labels, label)
		byLabel[label] = key.ID
	}

	return labels, byLabel
}

// ResolveReuseExistingSnapshot asks whether an existing snapshot should be
// reused rather than a new one taken.
func (r *Resolver) ResolveReuseExistingSnapshot() (bool, error) {
	reuse, err := r.prompter.Confirm("Use an existing snapshot")
	if err != nil {
		return false, fmt.Errorf("confirming snapshot reuse: %w", err)
	}
	return reuse, nil
}

// ResolveSnapshotDescriptor returns the explicit snapshot id when supplied;
// otherwise it lists the resolved resource's snapshots and prompts. The
// returned value is the full "id|timestamp" descriptor of the chosen
// snapshot, not the bare id.
func (r *Resolver) ResolveSnapshotDescriptor(ctx context.Context, explicit, resourceID string) (string, error) {
	if explicit != "" {
		r.logger.WithField("snapshot_id", explicit).Debug("Using explicit snapshot id")
		return explicit, nil
	}

	snapshots, err := r.databases.ListClusterSnapshots(ctx, resourceID)
	if err != nil {
		return "", err
	}
	if len(snapshots) == 0 {
		return "", apperrors.NewEmptyCandidatesError("cluster snapshots")
	}

	chosen, err := r.prompter.Choose("Select a snapshot to copy", rds.Descriptors(snapshots))
	if err != nil {
		return "", fmt.Errorf("choosing a snapshot: %w", err)
	}
	return chosen, nil
}
