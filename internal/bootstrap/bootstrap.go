// Package bootstrap turns a Config into the repository and services shared by
// the server and planogramctl.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/db"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/fixtures"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/notify"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/service"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/storage"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/store"
)

// Components is everything a binary needs to serve requests
type Components struct {
	Repo        store.Repository
	Transitions *service.Transitions
	Assignments *service.Assignments
	Exports     *storage.S3Store
}

// Close releases the repository
func (c *Components) Close() {
	if c != nil && c.Repo != nil {
		c.Repo.Close()
	}
}

// OpenRepository returns the store selected by cfg.DataSource
func OpenRepository(ctx context.Context, cfg *config.Config) (store.Repository, error) {
	switch cfg.DataSource {
	case config.SourceFixtures:
		log.Printf("Using in-memory fixture dataset")
		return store.NewMemory(fixtures.Generate()), nil

	case config.SourcePostgres:
		database, err := db.NewDatabase(cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		if err := database.InitSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		if cfg.SeedFixtures {
			if err := database.Seed(ctx, fixtures.Generate()); err != nil {
				database.Close()
				return nil, err
			}
		}
		return database, nil

	case config.SourceS3:
		s3store, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.SnapshotBucket)
		if err != nil {
			return nil, err
		}
		ds, err := s3store.LoadDataset(ctx, cfg.SnapshotKey)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded snapshot s3://%s/%s (%d assignments)", cfg.SnapshotBucket, cfg.SnapshotKey, len(ds.Assignments))
		return store.NewMemory(ds), nil
	}
	return nil, fmt.Errorf("unknown DATA_SOURCE %q", cfg.DataSource)
}

// Build opens the repository and wires the services around it
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	policy, err := lifecycle.PolicyByName(cfg.TransitionPolicy)
	if err != nil {
		return nil, err
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.SNSTopicARN != "" {
		awsCfg, err := awsConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		notifier = notify.NewSNSPublisher(awsCfg, cfg.SNSTopicARN)
	}

	exports, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.ExportBucket)
	if err != nil {
		return nil, err
	}

	repo, err := OpenRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Printf("Lifecycle policy: %s", policy.Name())
	return &Components{
		Repo:        repo,
		Transitions: service.NewTransitions(repo, policy, notifier),
		Assignments: service.NewAssignments(repo),
		Exports:     exports,
	}, nil
}

func awsConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("aws config: %w", err)
	}
	return cfg, nil
}
