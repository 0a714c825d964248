// Package storage moves planogram datasets and exports in and out of S3.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
)

// ObjectAPI is the subset of the S3 client used here
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store reads snapshots from and writes exports to one bucket
type S3Store struct {
	Client ObjectAPI
	Bucket string
}

// NewS3Store builds a client from the default credential chain. An empty
// bucket yields a disabled store.
func NewS3Store(ctx context.Context, region, bucket string) (*S3Store, error) {
	if bucket == "" {
		return &S3Store{}, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS default config: %w", err)
	}
	return &S3Store{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

func (s *S3Store) Enabled() bool { return s != nil && s.Client != nil && s.Bucket != "" }

// LoadDataset reads a JSON dataset snapshot from key
func (s *S3Store) LoadDataset(ctx context.Context, key string) (models.Dataset, error) {
	var ds models.Dataset
	if !s.Enabled() {
		return ds, fmt.Errorf("s3 store not configured")
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ds, fmt.Errorf("get s3://%s/%s: %w", s.Bucket, key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return ds, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(b, &ds); err != nil {
		return ds, fmt.Errorf("decode snapshot: %w", err)
	}
	return ds, nil
}

// UploadJSON writes v as JSON to key and returns its s3:// URI
func (s *S3Store) UploadJSON(ctx context.Context, key string, v any) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("s3 store not configured")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.Bucket, key), nil
}

// TimestampKey builds prefix + UTC timestamp + ".json"
func TimestampKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%s.json", prefix, now.UTC().Format("20060102T150405Z"))
}
