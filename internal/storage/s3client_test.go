package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/fixtures"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_UploadThenLoad(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	s := &S3Store{Client: fake, Bucket: "planograms"}
	ctx := context.Background()
	ds := fixtures.Generate()

	uri, err := s.UploadJSON(ctx, "snap.json", ds)
	require.NoError(t, err)
	assert.Equal(t, "s3://planograms/snap.json", uri)

	loaded, err := s.LoadDataset(ctx, "snap.json")
	require.NoError(t, err)
	if diff := cmp.Diff(ds, loaded); diff != "" {
		t.Errorf("snapshot round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestS3Store_LoadErrors(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"b/bad.json": []byte("{not json")}}
	s := &S3Store{Client: fake, Bucket: "b"}
	ctx := context.Background()

	_, err := s.LoadDataset(ctx, "missing.json")
	assert.Error(t, err)
	_, err = s.LoadDataset(ctx, "bad.json")
	assert.Error(t, err)
}

func TestS3Store_Disabled(t *testing.T) {
	s, err := NewS3Store(context.Background(), "eu-central-1", "")
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	_, err = s.UploadJSON(context.Background(), "k", map[string]int{})
	assert.Error(t, err)
}

func TestTimestampKey(t *testing.T) {
	now := time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "exports/a-20250801T093000Z.json", TimestampKey("exports/a-", now))
}

func TestUploadJSON_WritesValidJSON(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	s := &S3Store{Client: fake, Bucket: "b"}
	_, err := s.UploadJSON(context.Background(), "k.json", map[string]int{"total": 3})
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(fake.objects["b/k.json"], &got))
	assert.Equal(t, 3, got["total"])
}
