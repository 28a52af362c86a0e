// Package mock provides in-memory fakes for the aws package interfaces.
// The fakes model the provider error contract the real services expose:
// typed not-found and already-exists errors, and the bucket-not-empty
// constraint on deletion.
package mock

import (
	"context"
	"fmt"
	"io"
	"sort"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is an in-memory implementation of aws.S3API.
type S3Client struct {
	// Buckets maps bucket name to object key/content.
	Buckets map[string]map[string][]byte
	// AccessBlocks records the public access block applied per bucket.
	AccessBlocks map[string]types.PublicAccessBlockConfiguration
	// Regions records the location constraint each bucket was created with.
	Regions map[string]string
	// Calls records the operations invoked, in order.
	Calls []string

	// FailWith, when set, is returned by every operation. Used to inject
	// transient or permanent provider errors.
	FailWith error
}

// NewS3Client creates an empty fake S3.
func NewS3Client() *S3Client {
	return &S3Client{
		Buckets:      make(map[string]map[string][]byte),
		AccessBlocks: make(map[string]types.PublicAccessBlockConfiguration),
		Regions:      make(map[string]string),
	}
}

func (m *S3Client) record(op string) {
	m.Calls = append(m.Calls, op)
}

// HeadBucket reports bucket existence.
func (m *S3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	m.record("HeadBucket")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if _, ok := m.Buckets[sdkaws.ToString(params.Bucket)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

// CreateBucket creates the bucket or fails if it exists.
func (m *S3Client) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	m.record("CreateBucket")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.Bucket)
	if _, ok := m.Buckets[name]; ok {
		return nil, &types.BucketAlreadyOwnedByYou{}
	}
	m.Buckets[name] = make(map[string][]byte)
	if params.CreateBucketConfiguration != nil {
		m.Regions[name] = string(params.CreateBucketConfiguration.LocationConstraint)
	}
	return &s3.CreateBucketOutput{}, nil
}

// PutPublicAccessBlock stores the access block configuration.
func (m *S3Client) PutPublicAccessBlock(ctx context.Context, params *s3.PutPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error) {
	m.record("PutPublicAccessBlock")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.Bucket)
	if _, ok := m.Buckets[name]; !ok {
		return nil, &types.NoSuchBucket{}
	}
	m.AccessBlocks[name] = *params.PublicAccessBlockConfiguration
	return &s3.PutPublicAccessBlockOutput{}, nil
}

// PutObject stores the object body.
func (m *S3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.record("PutObject")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.Bucket)
	objects, ok := m.Buckets[name]
	if !ok {
		return nil, &types.NoSuchBucket{}
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	objects[sdkaws.ToString(params.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

// ListObjectsV2 returns all keys in one page, sorted.
func (m *S3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.record("ListObjectsV2")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	objects, ok := m.Buckets[sdkaws.ToString(params.Bucket)]
	if !ok {
		return nil, &types.NoSuchBucket{}
	}

	keys := make([]string, 0, len(objects))
	for key := range objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{KeyCount: sdkaws.Int32(int32(len(keys)))}
	for _, key := range keys {
		out.Contents = append(out.Contents, types.Object{Key: sdkaws.String(key)})
	}
	return out, nil
}

// DeleteObjects removes the named keys.
func (m *S3Client) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	m.record("DeleteObjects")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	objects, ok := m.Buckets[sdkaws.ToString(params.Bucket)]
	if !ok {
		return nil, &types.NoSuchBucket{}
	}
	for _, id := range params.Delete.Objects {
		delete(objects, sdkaws.ToString(id.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

// DeleteBucket removes the bucket, refusing when objects remain.
func (m *S3Client) DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	m.record("DeleteBucket")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.Bucket)
	objects, ok := m.Buckets[name]
	if !ok {
		return nil, &types.NoSuchBucket{}
	}
	if len(objects) > 0 {
		return nil, &smithy.GenericAPIError{Code: "BucketNotEmpty", Message: "bucket not empty"}
	}
	delete(m.Buckets, name)
	return &s3.DeleteBucketOutput{}, nil
}
