package storage

import (
	"context"
	"fmt"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/agency/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Buckets holds one ObjectStorage per configured bucket
type Buckets struct {
	CompanyAssets shared.ObjectStorage
	PrintFiles    shared.ObjectStorage
}

// NewBuckets builds the bucket stores. With storage disabled both buckets
// are kept in memory.
func NewBuckets(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*Buckets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Warn("object storage disabled, files are kept in memory")
		return &Buckets{
			CompanyAssets: NewMemoryObjectStorage(cfg.CompanyAssetsBucket),
			PrintFiles:    NewMemoryObjectStorage(cfg.PrintFilesBucket),
		}, nil
	}

	open := func(bucket string) (*S3ObjectStorage, error) {
		s, err := NewS3ObjectStorage(cfg, bucket, WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("bucket %s: %w", bucket, err)
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("bucket %s: %w", bucket, err)
		}
		return s, nil
	}

	assets, err := open(cfg.CompanyAssetsBucket)
	if err != nil {
		return nil, err
	}
	files, err := open(cfg.PrintFilesBucket)
	if err != nil {
		return nil, err
	}

	logger.Info("object storage ready",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("company_assets", cfg.CompanyAssetsBucket),
		zap.String("print_files", cfg.PrintFilesBucket))
	return &Buckets{CompanyAssets: assets, PrintFiles: files}, nil
}
