package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds-snapshot-copy/internal/resolver"
)

// stageRecorder is a ParameterResolver that records stage order and can
// fail at a chosen stage
type stageRecorder struct {
	stages []string

	failAt  string
	failErr error

	reuse bool
}

func (s *stageRecorder) maybeFail(stage string) error {
	s.stages = append(s.stages, stage)
	if s.failAt == stage {
		return s.failErr
	}
	return nil
}

func (s *stageRecorder) ResolveResourceID(ctx context.Context, explicit string, dbType resolver.DBType) (string, error) {
	if err := s.maybeFail("resource"); err != nil {
		return "", err
	}
	if explicit != "" {
		return explicit, nil
	}
	return "resolved-resource", nil
}

func (s *stageRecorder) ResolveKeyID(ctx context.Context, explicit string) (string, error) {
	if err := s.maybeFail("key"); err != nil {
		return "", err
	}
	if explicit != "" {
		return explicit, nil
	}
	return "resolved-key", nil
}

func (s *stageRecorder) ResolveReuseExistingSnapshot() (bool, error) {
	if err := s.maybeFail("reuse"); err != nil {
		return false, err
	}
	return s.reuse, nil
}

func (s *stageRecorder) ResolveSnapshotDescriptor(ctx context.Context, explicit, resourceID string) (string, error) {
	if err := s.maybeFail("snapshot " + resourceID); err != nil {
		return "", err
	}
	if explicit != "" {
		return explicit, nil
	}
	return "resolved-snap|2023-01-02 03:04:05", nil
}

func TestExecuteRunsStagesInOrder(t *testing.T) {
	rec := &stageRecorder{reuse: true}
	exec := NewExecutor(rec, nil)

	params, err := exec.Execute(context.Background(), Request{DBType: resolver.DBTypeCluster})
	require.NoError(t, err)

	assert.Equal(t, &ResolvedParameters{
		ResourceID:            "resolved-resource",
		KeyID:                 "resolved-key",
		ReuseExistingSnapshot: true,
		SnapshotDescriptor:    "resolved-snap|2023-01-02 03:04:05",
	}, params)
	assert.Equal(t, []string{"resource", "key", "reuse", "snapshot resolved-resource"}, rec.stages)
}

func TestExecuteFeedsResourceIntoSnapshotStage(t *testing.T) {
	rec := &stageRecorder{}
	exec := NewExecutor(rec, nil)

	_, err := exec.Execute(context.Background(), Request{DBIdentifier: "my-cluster"})
	require.NoError(t, err)
	assert.Contains(t, rec.stages, "snapshot my-cluster")
}

func TestExecuteExplicitValuesPassThrough(t *testing.T) {
	rec := &stageRecorder{}
	exec := NewExecutor(rec, nil)

	params, err := exec.Execute(context.Background(), Request{
		DBIdentifier: "my-cluster",
		KMSKeyID:     "k-1",
		SnapshotID:   "snap-9",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-cluster", params.ResourceID)
	assert.Equal(t, "k-1", params.KeyID)
	assert.Equal(t, "snap-9", params.SnapshotDescriptor)
}

func TestExecuteHaltsOnStageFailure(t *testing.T) {
	boom := errors.New("cancelled")

	tests := []struct {
		name       string
		failAt     string
		wantStages int
	}{
		{"resource stage", "resource", 1},
		{"key stage", "key", 2},
		{"reuse stage", "reuse", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &stageRecorder{failAt: tt.failAt, failErr: boom}
			exec := NewExecutor(rec, nil)

			params, err := exec.Execute(context.Background(), Request{})
			assert.ErrorIs(t, err, boom)
			assert.Nil(t, params, "no partial tuple on failure")
			assert.Len(t, rec.stages, tt.wantStages, "later stages must not run")
		})
	}
}

func TestExecuteSnapshotStageFailure(t *testing.T) {
	boom := errors.New("empty")
	rec := &stageRecorder{failAt: "snapshot resolved-resource", failErr: boom}
	exec := NewExecutor(rec, nil)

	params, err := exec.Execute(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, params)
}
