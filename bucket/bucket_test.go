package bucket

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"

	"github.com/lakeops/lakectl/integration/mock"
)

func TestEnsureCreatesBucket(t *testing.T) {
	client := mock.NewS3Client()
	b := New(client, "stedi-lakehouse", "us-west-2")

	if err := b.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if _, ok := client.Buckets["stedi-lakehouse"]; !ok {
		t.Fatal("bucket was not created")
	}
	if got := client.Regions["stedi-lakehouse"]; got != "us-west-2" {
		t.Errorf("location constraint = %q, want us-west-2", got)
	}

	block, ok := client.AccessBlocks["stedi-lakehouse"]
	if !ok {
		t.Fatal("public access block was not applied")
	}
	for name, field := range map[string]*bool{
		"BlockPublicAcls":       block.BlockPublicAcls,
		"IgnorePublicAcls":      block.IgnorePublicAcls,
		"BlockPublicPolicy":     block.BlockPublicPolicy,
		"RestrictPublicBuckets": block.RestrictPublicBuckets,
	} {
		if !sdkaws.ToBool(field) {
			t.Errorf("%s = false, want true", name)
		}
	}
}

func TestEnsureOmitsConstraintForUSEast1(t *testing.T) {
	client := mock.NewS3Client()
	b := New(client, "stedi-lakehouse", "us-east-1")

	if err := b.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if got, ok := client.Regions["stedi-lakehouse"]; ok {
		t.Errorf("us-east-1 bucket was created with location constraint %q", got)
	}
}

func TestEnsureExistingBucket(t *testing.T) {
	client := mock.NewS3Client()
	b := New(client, "stedi-lakehouse", "us-west-2")
	ctx := context.Background()

	if err := b.Ensure(ctx); err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	if err := b.Ensure(ctx); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}

	creates := 0
	for _, call := range client.Calls {
		if call == "CreateBucket" {
			creates++
		}
	}
	if creates != 1 {
		t.Errorf("expected 1 CreateBucket call, got %d", creates)
	}
}

func sampleDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"customer/landing/customer-1.json":           `{"customerName": "Frank"}`,
		"customer/landing/customer-2.json":           `{"customerName": "Grace"}`,
		"accelerometer/landing/accelerometer-1.json": `{"x": 0.1}`,
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	// A source without a landing directory is skipped, not an error.
	if err := os.MkdirAll(filepath.Join(dir, "step_trainer"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return dir
}

func TestUploadSampleData(t *testing.T) {
	client := mock.NewS3Client()
	b := New(client, "stedi-lakehouse", "us-west-2")
	ctx := context.Background()

	if err := b.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	count, err := b.UploadSampleData(ctx, sampleDataDir(t))
	if err != nil {
		t.Fatalf("UploadSampleData: %v", err)
	}
	if count != 3 {
		t.Errorf("uploaded %d files, want 3", count)
	}

	objects := client.Buckets["stedi-lakehouse"]
	for _, key := range []string{
		"customer/landing/customer-1.json",
		"customer/landing/customer-2.json",
		"accelerometer/landing/accelerometer-1.json",
	} {
		if _, ok := objects[key]; !ok {
			t.Errorf("object %s was not uploaded", key)
		}
	}
	if got := string(objects["customer/landing/customer-1.json"]); got != `{"customerName": "Frank"}` {
		t.Errorf("object content = %q", got)
	}
}

func TestUploadSampleDataMissingDir(t *testing.T) {
	client := mock.NewS3Client()
	b := New(client, "stedi-lakehouse", "us-west-2")

	if _, err := b.UploadSampleData(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing data directory")
	}
}

func TestDeleteEmptiesBucketFirst(t *testing.T) {
	client := mock.NewS3Client()
	b := New(client, "stedi-lakehouse", "us-west-2")
	ctx := context.Background()

	if err := b.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := b.UploadSampleData(ctx, sampleDataDir(t)); err != nil {
		t.Fatalf("UploadSampleData: %v", err)
	}

	if err := b.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := client.Buckets["stedi-lakehouse"]; ok {
		t.Error("bucket still exists after Delete")
	}
}

func TestDeleteMissingBucket(t *testing.T) {
	client := mock.NewS3Client()
	b := New(client, "stedi-lakehouse", "us-west-2")

	if err := b.Delete(context.Background()); err != nil {
		t.Fatalf("Delete on missing bucket: %v", err)
	}
}
