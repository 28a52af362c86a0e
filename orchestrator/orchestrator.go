// Package orchestrator sequences the resource steps that make up a
// setup or teardown run. Each step is recorded in a Report; the first
// failure aborts the remainder of the run.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/lakeops/lakectl/logging"
	"github.com/lakeops/lakectl/schema"
)

// BucketClient is the bucket surface the orchestrator drives.
type BucketClient interface {
	Name() string
	Ensure(ctx context.Context) error
	UploadSampleData(ctx context.Context, dataDir string) (int, error)
	Delete(ctx context.Context) error
}

// RoleClient is the IAM role surface the orchestrator drives.
type RoleClient interface {
	Name() string
	Ensure(ctx context.Context) error
	AttachPolicies(ctx context.Context, bucketName string) error
	Delete(ctx context.Context) error
}

// CatalogClient is the Glue catalog surface the orchestrator drives.
type CatalogClient interface {
	Database() string
	EnsureDatabase(ctx context.Context) error
	CreateTables(ctx context.Context, tables []schema.Table) error
	Delete(ctx context.Context) error
}

// EndpointClient is the VPC endpoint surface the orchestrator drives.
type EndpointClient interface {
	Create(ctx context.Context) error
	Delete(ctx context.Context) error
}

// Options control which optional steps a run performs.
type Options struct {
	// InitVPCEndpoint creates the S3 gateway endpoint during setup.
	InitVPCEndpoint bool
	// RemoveVPCEndpoint deletes the S3 gateway endpoint during teardown.
	RemoveVPCEndpoint bool
	// SkipLoadData skips uploading the sample data files during setup.
	SkipLoadData bool
	// SkipBucketRemoval leaves the bucket and its objects in place
	// during teardown.
	SkipBucketRemoval bool

	// DataDir is the local directory holding sample data, laid out as
	// <source>/landing/<file>.
	DataDir string
	// SchemaDir is the local directory holding table schema files.
	SchemaDir string
}

// Orchestrator runs the setup and teardown sequences over the four
// resource clients.
type Orchestrator struct {
	bucket   BucketClient
	role     RoleClient
	catalog  CatalogClient
	endpoint EndpointClient
	opts     Options
}

// New creates an Orchestrator.
func New(bucket BucketClient, role RoleClient, catalog CatalogClient, endpoint EndpointClient, opts Options) *Orchestrator {
	return &Orchestrator{
		bucket:   bucket,
		role:     role,
		catalog:  catalog,
		endpoint: endpoint,
		opts:     opts,
	}
}

// runStep executes fn and records its outcome. A skipped step records
// StatusSkipped without running fn. The returned error is fn's error.
func runStep(ctx context.Context, report *Report, name string, skip bool, fn func(context.Context) error) error {
	if skip {
		logging.Infof("step %s skipped", name)
		report.add(StepResult{Name: name, Status: StatusSkipped})
		return nil
	}

	logging.Infof("step %s starting", name)
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logging.WithError(err).Errorf("step %s failed after %s", name, elapsed.Round(time.Millisecond))
		report.add(StepResult{Name: name, Status: StatusFailed, Duration: elapsed, Error: err.Error()})
		return fmt.Errorf("step %s: %w", name, err)
	}

	logging.Infof("step %s done in %s", name, elapsed.Round(time.Millisecond))
	report.add(StepResult{Name: name, Status: StatusOK, Duration: elapsed})
	return nil
}

// Setup provisions the bucket, sample data, role, optional endpoint,
// database, and tables, in that order. The report covers every step
// reached before the first failure.
func (o *Orchestrator) Setup(ctx context.Context) (*Report, error) {
	report := newReport("setup")
	defer report.finish()

	steps := []struct {
		name string
		skip bool
		fn   func(context.Context) error
	}{
		{"ensure-bucket", false, o.bucket.Ensure},
		{"load-sample-data", o.opts.SkipLoadData, func(ctx context.Context) error {
			count, err := o.bucket.UploadSampleData(ctx, o.opts.DataDir)
			if err != nil {
				return err
			}
			logging.Infof("uploaded %d sample data files to %s", count, o.bucket.Name())
			return nil
		}},
		{"ensure-role", false, func(ctx context.Context) error {
			if err := o.role.Ensure(ctx); err != nil {
				return err
			}
			return o.role.AttachPolicies(ctx, o.bucket.Name())
		}},
		{"create-vpc-endpoint", !o.opts.InitVPCEndpoint, o.endpoint.Create},
		{"ensure-database", false, o.catalog.EnsureDatabase},
		{"create-tables", false, func(ctx context.Context) error {
			tables, err := schema.LoadDir(o.opts.SchemaDir)
			if err != nil {
				return err
			}
			return o.catalog.CreateTables(ctx, tables)
		}},
	}

	for _, step := range steps {
		if err := runStep(ctx, report, step.name, step.skip, step.fn); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Teardown removes resources in reverse dependency order: catalog
// first, then the optional endpoint, the role, and finally the bucket.
func (o *Orchestrator) Teardown(ctx context.Context) (*Report, error) {
	report := newReport("teardown")
	defer report.finish()

	steps := []struct {
		name string
		skip bool
		fn   func(context.Context) error
	}{
		{"delete-database", false, o.catalog.Delete},
		{"delete-vpc-endpoint", !o.opts.RemoveVPCEndpoint, o.endpoint.Delete},
		{"delete-role", false, o.role.Delete},
		{"delete-bucket", o.opts.SkipBucketRemoval, o.bucket.Delete},
	}

	for _, step := range steps {
		if err := runStep(ctx, report, step.name, step.skip, step.fn); err != nil {
			return report, err
		}
	}
	return report, nil
}
