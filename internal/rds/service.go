// Package rds lists the database resources a resolution run chooses among:
// standalone instances, clusters, and cluster snapshots.
package rds

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"

	apperrors "rds-snapshot-copy/internal/errors"
	"rds-snapshot-copy/internal/logging"
	"rds-snapshot-copy/internal/paginate"
)

// Client is the subset of the RDS API the service consumes
type Client interface {
	awsrds.DescribeDBInstancesAPIClient
	awsrds.DescribeDBClustersAPIClient
	awsrds.DescribeDBClusterSnapshotsAPIClient

	DescribeDBSnapshotAttributes(context.Context, *awsrds.DescribeDBSnapshotAttributesInput, ...func(*awsrds.Options)) (*awsrds.DescribeDBSnapshotAttributesOutput, error)
}

// Service queries the database service
type Service struct {
	client Client
	logger *logging.Logger
}

// NewService creates a Service backed by a real RDS client
func NewService(cfg aws.Config, logger *logging.Logger) *Service {
	return NewServiceWithClient(awsrds.NewFromConfig(cfg), logger)
}

// NewServiceWithClient creates a Service with the given client. Used by
// tests to substitute a scripted client.
func NewServiceWithClient(client Client, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Service{client: client, logger: logger}
}

// ListStandaloneInstances returns the identifiers of all instances that do
// not belong to a cluster. Cluster members are reachable only through their
// cluster identifier.
func (s *Service) ListStandaloneInstances(ctx context.Context) ([]string, error) {
	start := time.Now()
	p := awsrds.NewDescribeDBInstancesPaginator(s.client, &awsrds.DescribeDBInstancesInput{})

	instances, err := paginate.All(ctx, func(ctx context.Context) ([]types.DBInstance, bool, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		return page.DBInstances, p.HasMorePages(), nil
	})

	s.logger.LogAPIListing("rds", "DescribeDBInstances", len(instances), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	identifiers := make([]string, 0, len(instances))
	for _, instance := range instances {
		if instance.DBClusterIdentifier != nil {
			continue
		}
		if instance.DBInstanceIdentifier == nil {
			return nil, apperrors.NewMalformedRecordError("instance", "instance identifier")
		}
		identifiers = append(identifiers, aws.ToString(instance.DBInstanceIdentifier))
	}

	return identifiers, nil
}

// ListClusters returns the identifiers of all clusters
func (s *Service) ListClusters(ctx context.Context) ([]string, error) {
	start := time.Now()
	p := awsrds.NewDescribeDBClustersPaginator(s.client, &awsrds.DescribeDBClustersInput{})

	clusters, err := paginate.All(ctx, func(ctx context.Context) ([]types.DBCluster, bool, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		return page.DBClusters, p.HasMorePages(), nil
	})

	s.logger.LogAPIListing("rds", "DescribeDBClusters", len(clusters), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	identifiers := make([]string, 0, len(clusters))
	for _, cluster := range clusters {
		if cluster.DBClusterIdentifier == nil {
			return nil, apperrors.NewMalformedRecordError("cluster", "cluster identifier")
		}
		identifiers = append(identifiers, aws.ToString(cluster.DBClusterIdentifier))
	}

	return identifiers, nil
}

// ListClusterSnapshots returns all snapshots of the given cluster in
// service order. A snapshot without an identifier or creation time fails
// the whole call; a missing field there means the API contract was broken.
func (s *Service) ListClusterSnapshots(ctx context.Context, clusterID string) ([]Snapshot, error) {
	start := time.Now()
	p := awsrds.NewDescribeDBClusterSnapshotsPaginator(s.client, &awsrds.DescribeDBClusterSnapshotsInput{
		DBClusterIdentifier: aws.String(clusterID),
	})

	records, err := paginate.All(ctx, func(ctx context.Context) ([]types.DBClusterSnapshot, bool, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		return page.DBClusterSnapshots, p.HasMorePages(), nil
	})

	s.logger.LogAPIListing("rds", "DescribeDBClusterSnapshots", len(records), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for cluster %s: %w", clusterID, err)
	}

	snapshots := make([]Snapshot, 0, len(records))
	for _, record := range records {
		if record.DBClusterSnapshotIdentifier == nil {
			return nil, apperrors.NewMalformedRecordError("snapshot", "snapshot identifier")
		}
		if record.SnapshotCreateTime == nil {
			return nil, apperrors.NewMalformedRecordError("snapshot", "creation time")
		}
		snapshots = append(snapshots, Snapshot{
			ID:        aws.ToString(record.DBClusterSnapshotIdentifier),
			CreatedAt: record.SnapshotCreateTime.UTC(),
		})
	}

	return snapshots, nil
}

// DescribeSnapshotAttributes returns a snapshot's attribute map, e.g. the
// "restore" attribute listing account ids authorized to copy or restore it.
func (s *Service) DescribeSnapshotAttributes(ctx context.Context, snapshotID string) (map[string][]string, error) {
	start := time.Now()
	out, err := s.client.DescribeDBSnapshotAttributes(ctx, &awsrds.DescribeDBSnapshotAttributesInput{
		DBSnapshotIdentifier: aws.String(snapshotID),
	})

	s.logger.LogAPIListing("rds", "DescribeDBSnapshotAttributes", 0, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to describe attributes of snapshot %s: %w", snapshotID, err)
	}
	if out.DBSnapshotAttributesResult == nil {
		return nil, apperrors.NewMalformedRecordError("snapshot attributes", "attributes result")
	}

	attributes := make(map[string][]string, len(out.DBSnapshotAttributesResult.DBSnapshotAttributes))
	for _, attr := range out.DBSnapshotAttributesResult.DBSnapshotAttributes {
		if attr.AttributeName == nil {
			return nil, apperrors.NewMalformedRecordError("snapshot attribute", "attribute name")
		}
		values := make([]string, len(attr.AttributeValues))
		copy(values, attr.AttributeValues)
		attributes[aws.ToString(attr.AttributeName)] = values
	}

	return attributes, nil
}
