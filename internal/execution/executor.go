// Package execution sequences the four resolution stages into a complete
// parameter tuple for the downstream snapshot copy.
package execution

import (
	"context"

	"rds-snapshot-copy/internal/logging"
	"rds-snapshot-copy/internal/resolver"
)

// Request carries the explicit identifiers supplied on the command line.
// Empty fields are resolved interactively.
type Request struct {
	DBIdentifier string
	KMSKeyID     string
	DBType       resolver.DBType
	SnapshotID   string
}

// ResolvedParameters is the complete output tuple. All fields are populated
// when Execute returns without error; a partial tuple is never produced.
type ResolvedParameters struct {
	ResourceID            string
	KeyID                 string
	ReuseExistingSnapshot bool
	SnapshotDescriptor    string
}

// ParameterResolver is the resolution surface the executor drives
type ParameterResolver interface {
	ResolveResourceID(ctx context.Context, explicit string, dbType resolver.DBType) (string, error)
	ResolveKeyID(ctx context.Context, explicit string) (string, error)
	ResolveReuseExistingSnapshot() (bool, error)
	ResolveSnapshotDescriptor(ctx context.Context, explicit, resourceID string) (string, error)
}

// Executor runs the resolution stages in order: resource, key, reuse
// decision, snapshot. Each stage feeds the next; the first failure halts
// the run.
type Executor struct {
	resolver ParameterResolver
	logger   *logging.Logger
}

// NewExecutor creates an Executor
func NewExecutor(r ParameterResolver, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Executor{resolver: r, logger: logger}
}

// Execute resolves the full parameter tuple
func (e *Executor) Execute(ctx context.Context, req Request) (*ResolvedParameters, error) {
	resourceID, err := e.resolver.ResolveResourceID(ctx, req.DBIdentifier, req.DBType)
	e.logger.LogStage("resource", resourceID, err)
	if err != nil {
		return nil, err
	}

	keyID, err := e.resolver.ResolveKeyID(ctx, req.KMSKeyID)
	e.logger.LogStage("key", keyID, err)
	if err != nil {
		return nil, err
	}

	reuse, err := e.resolver.ResolveReuseExistingSnapshot()
	e.logger.LogStage("reuse_existing_snapshot", reuse, err)
	if err != nil {
		return nil, err
	}

	descriptor, err := e.resolver.ResolveSnapshotDescriptor(ctx, req.SnapshotID, resourceID)
	e.logger.LogStage("snapshot", descriptor, err)
	if err != nil {
		return nil, err
	}

	return &ResolvedParameters{
		ResourceID:            resourceID,
		KeyID:                 keyID,
		ReuseExistingSnapshot: reuse,
		SnapshotDescriptor:    descriptor,
	}, nil
}
