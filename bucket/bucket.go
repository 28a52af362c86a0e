// Package bucket manages the data-lake S3 bucket: creation, the public
// access block, sample-data upload into landing prefixes, and the
// empty-then-delete teardown the provider requires.
package bucket

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/lakeops/lakectl/aws"
	"github.com/lakeops/lakectl/logging"
	"github.com/lakeops/lakectl/retry"
)

// deleteBatchSize is the DeleteObjects request limit imposed by S3.
const deleteBatchSize = 1000

// Visibility poll parameters after CreateBucket. S3 bucket creation is
// eventually consistent across endpoints.
const (
	waitDelay       = 2 * time.Second
	waitMaxAttempts = 10
)

// Bucket wraps the S3 operations for one named bucket.
type Bucket struct {
	client aws.S3API
	name   string
	region string
}

// New returns a Bucket for the given name in the given region.
func New(client aws.S3API, name, region string) *Bucket {
	return &Bucket{client: client, name: name, region: region}
}

// Name returns the bucket name.
func (b *Bucket) Name() string {
	return b.name
}

// Ensure creates the bucket if it does not exist, waits for it to become
// visible, and applies the public access block. Calling it against an
// existing bucket is a no-op success.
func (b *Bucket) Ensure(ctx context.Context) error {
	exists, err := b.exists(ctx)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", b.name, err)
	}
	if exists {
		logging.Infof("bucket %s already exists", b.name)
		return nil
	}

	input := &s3.CreateBucketInput{Bucket: sdkaws.String(b.name)}
	// us-east-1 must not be sent as a location constraint.
	if b.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(b.region),
		}
	}

	err = retry.Do(ctx, "s3.CreateBucket", func() error {
		_, err := b.client.CreateBucket(ctx, input)
		return err
	})
	if err != nil && !retry.IsAlreadyExists(err) {
		return fmt.Errorf("create bucket %s: %w", b.name, err)
	}

	if err := b.waitUntilVisible(ctx); err != nil {
		return err
	}
	logging.Infof("bucket %s created", b.name)

	return b.applyPublicAccessBlock(ctx)
}

// exists checks for the bucket with a HeadBucket call.
func (b *Bucket) exists(ctx context.Context) (bool, error) {
	var found bool
	err := retry.Do(ctx, "s3.HeadBucket", func() error {
		_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: sdkaws.String(b.name)})
		if err == nil {
			found = true
		}
		return err
	})
	if err != nil {
		if retry.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return found, nil
}

// waitUntilVisible polls HeadBucket until the new bucket answers.
func (b *Bucket) waitUntilVisible(ctx context.Context) error {
	for attempt := 1; attempt <= waitMaxAttempts; attempt++ {
		_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: sdkaws.String(b.name)})
		if err == nil {
			return nil
		}
		if !retry.IsNotFound(err) && retry.Classify(err) != retry.KindTransient {
			return fmt.Errorf("wait for bucket %s: %w", b.name, err)
		}
		logging.Debugf("bucket %s not visible yet (attempt %d/%d)", b.name, attempt, waitMaxAttempts)

		select {
		case <-time.After(waitDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("timed out waiting for bucket %s to become visible", b.name)
}

// applyPublicAccessBlock blocks all public access on the bucket.
func (b *Bucket) applyPublicAccessBlock(ctx context.Context) error {
	err := retry.Do(ctx, "s3.PutPublicAccessBlock", func() error {
		_, err := b.client.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
			Bucket: sdkaws.String(b.name),
			PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
				BlockPublicAcls:       sdkaws.Bool(true),
				IgnorePublicAcls:      sdkaws.Bool(true),
				BlockPublicPolicy:     sdkaws.Bool(true),
				RestrictPublicBuckets: sdkaws.Bool(true),
			},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("apply public access block to %s: %w", b.name, err)
	}
	logging.Infof("public access block applied to bucket %s", b.name)
	return nil
}

// UploadSampleData uploads every file under <dataDir>/<source>/landing/ to
// the key <source>/landing/<file>. Existing objects with the same key are
// overwritten. Returns the number of objects uploaded.
func (b *Bucket) UploadSampleData(ctx context.Context, dataDir string) (int, error) {
	sources, err := os.ReadDir(dataDir)
	if err != nil {
		return 0, fmt.Errorf("read data directory %s: %w", dataDir, err)
	}

	uploaded := 0
	for _, source := range sources {
		if !source.IsDir() {
			continue
		}
		landingDir := filepath.Join(dataDir, source.Name(), "landing")
		files, err := os.ReadDir(landingDir)
		if os.IsNotExist(err) {
			logging.Infof("skipping %s: no landing directory", source.Name())
			continue
		}
		if err != nil {
			return uploaded, fmt.Errorf("read %s: %w", landingDir, err)
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			key := source.Name() + "/landing/" + file.Name()
			if err := b.uploadFile(ctx, filepath.Join(landingDir, file.Name()), key); err != nil {
				return uploaded, err
			}
			uploaded++
			logging.Infof("uploaded s3://%s/%s", b.name, key)
		}
	}
	return uploaded, nil
}

// uploadFile puts a single local file to the given key.
func (b *Bucket) uploadFile(ctx context.Context, path, key string) error {
	return retry.Do(ctx, "s3.PutObject", func() error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: sdkaws.String(b.name),
			Key:    sdkaws.String(key),
			Body:   f,
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		return nil
	})
}

// Empty deletes every object in the bucket in batches. An absent bucket is
// treated as already empty.
func (b *Bucket) Empty(ctx context.Context) error {
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: sdkaws.String(b.name),
	})

	deleted := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if retry.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("list objects in %s: %w", b.name, err)
		}

		var identifiers []types.ObjectIdentifier
		for _, obj := range page.Contents {
			identifiers = append(identifiers, types.ObjectIdentifier{Key: obj.Key})
		}

		for start := 0; start < len(identifiers); start += deleteBatchSize {
			end := min(start+deleteBatchSize, len(identifiers))
			batch := identifiers[start:end]

			err := retry.Do(ctx, "s3.DeleteObjects", func() error {
				_, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
					Bucket: sdkaws.String(b.name),
					Delete: &types.Delete{Objects: batch},
				})
				return err
			})
			if err != nil {
				if retry.IsNotFound(err) {
					return nil
				}
				return fmt.Errorf("delete objects in %s: %w", b.name, err)
			}
			deleted += len(batch)
		}
	}

	if deleted > 0 {
		logging.Infof("deleted %d objects from bucket %s", deleted, b.name)
	}
	return nil
}

// Delete empties the bucket and then deletes it. An absent bucket is
// success.
func (b *Bucket) Delete(ctx context.Context) error {
	if err := b.Empty(ctx); err != nil {
		return err
	}

	err := retry.Do(ctx, "s3.DeleteBucket", func() error {
		_, err := b.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: sdkaws.String(b.name)})
		return err
	})
	if err != nil {
		if retry.IsNotFound(err) {
			logging.Infof("bucket %s already absent", b.name)
			return nil
		}
		return fmt.Errorf("delete bucket %s: %w", b.name, err)
	}
	logging.Infof("bucket %s emptied and deleted", b.name)
	return nil
}
