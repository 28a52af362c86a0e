package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lakeops/lakectl/schema"
)

// recorder tracks the order of resource calls and injects failures.
type recorder struct {
	calls []string
	fail  map[string]error
}

func newRecorder() *recorder {
	return &recorder{fail: make(map[string]error)}
}

func (r *recorder) hit(name string) error {
	r.calls = append(r.calls, name)
	return r.fail[name]
}

type fakeBucket struct{ rec *recorder }

func (b *fakeBucket) Name() string                 { return "stedi-lakehouse" }
func (b *fakeBucket) Ensure(context.Context) error { return b.rec.hit("bucket.Ensure") }
func (b *fakeBucket) Delete(context.Context) error { return b.rec.hit("bucket.Delete") }
func (b *fakeBucket) UploadSampleData(context.Context, string) (int, error) {
	return 3, b.rec.hit("bucket.UploadSampleData")
}

type fakeRole struct{ rec *recorder }

func (r *fakeRole) Name() string                 { return "glue-service-role" }
func (r *fakeRole) Ensure(context.Context) error { return r.rec.hit("role.Ensure") }
func (r *fakeRole) Delete(context.Context) error { return r.rec.hit("role.Delete") }
func (r *fakeRole) AttachPolicies(context.Context, string) error {
	return r.rec.hit("role.AttachPolicies")
}

type fakeCatalog struct{ rec *recorder }

func (c *fakeCatalog) Database() string             { return "stedi" }
func (c *fakeCatalog) Delete(context.Context) error { return c.rec.hit("catalog.Delete") }
func (c *fakeCatalog) EnsureDatabase(ctx context.Context) error {
	return c.rec.hit("catalog.EnsureDatabase")
}
func (c *fakeCatalog) CreateTables(context.Context, []schema.Table) error {
	return c.rec.hit("catalog.CreateTables")
}

type fakeEndpoint struct{ rec *recorder }

func (e *fakeEndpoint) Create(context.Context) error { return e.rec.hit("endpoint.Create") }
func (e *fakeEndpoint) Delete(context.Context) error { return e.rec.hit("endpoint.Delete") }

func newTestOrchestrator(t *testing.T, rec *recorder, opts Options) *Orchestrator {
	t.Helper()
	if opts.SchemaDir == "" {
		opts.SchemaDir = schemaDir(t)
	}
	return New(&fakeBucket{rec}, &fakeRole{rec}, &fakeCatalog{rec}, &fakeEndpoint{rec}, opts)
}

func schemaDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := `{"columns": [{"name": "email", "type": "string"}]}`
	if err := os.WriteFile(filepath.Join(dir, "customer_landing.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return dir
}

func stepStatuses(report *Report) map[string]string {
	statuses := make(map[string]string, len(report.Steps))
	for _, step := range report.Steps {
		statuses[step.Name] = step.Status
	}
	return statuses
}

func TestSetupRunsStepsInOrder(t *testing.T) {
	rec := newRecorder()
	o := newTestOrchestrator(t, rec, Options{InitVPCEndpoint: true})

	report, err := o.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	want := []string{
		"bucket.Ensure",
		"bucket.UploadSampleData",
		"role.Ensure",
		"role.AttachPolicies",
		"endpoint.Create",
		"catalog.EnsureDatabase",
		"catalog.CreateTables",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}

	for _, step := range report.Steps {
		if step.Status != StatusOK {
			t.Errorf("step %s = %s, want ok", step.Name, step.Status)
		}
	}
}

func TestSetupSkipsOptionalSteps(t *testing.T) {
	rec := newRecorder()
	o := newTestOrchestrator(t, rec, Options{SkipLoadData: true})

	report, err := o.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	for _, call := range rec.calls {
		if call == "bucket.UploadSampleData" || call == "endpoint.Create" {
			t.Errorf("skipped step was executed: %s", call)
		}
	}

	statuses := stepStatuses(report)
	if statuses["load-sample-data"] != StatusSkipped {
		t.Errorf("load-sample-data = %s, want skipped", statuses["load-sample-data"])
	}
	if statuses["create-vpc-endpoint"] != StatusSkipped {
		t.Errorf("create-vpc-endpoint = %s, want skipped", statuses["create-vpc-endpoint"])
	}
}

func TestSetupAbortsOnFailure(t *testing.T) {
	rec := newRecorder()
	rec.fail["role.Ensure"] = errors.New("simulated iam outage")
	o := newTestOrchestrator(t, rec, Options{})

	report, err := o.Setup(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "ensure-role") {
		t.Errorf("error does not name the failing step: %v", err)
	}

	for _, call := range rec.calls {
		if strings.HasPrefix(call, "catalog.") {
			t.Errorf("catalog step ran after failure: %s", call)
		}
	}

	failed, ok := report.Failed()
	if !ok {
		t.Fatal("report has no failed step")
	}
	if failed.Name != "ensure-role" {
		t.Errorf("failed step = %s, want ensure-role", failed.Name)
	}
	if !strings.Contains(failed.Error, "simulated iam outage") {
		t.Errorf("failed step error = %q", failed.Error)
	}
}

func TestTeardownRunsStepsInOrder(t *testing.T) {
	rec := newRecorder()
	o := newTestOrchestrator(t, rec, Options{RemoveVPCEndpoint: true})

	report, err := o.Teardown(context.Background())
	if err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	want := []string{
		"catalog.Delete",
		"endpoint.Delete",
		"role.Delete",
		"bucket.Delete",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}

	if _, failed := report.Failed(); failed {
		t.Error("report records a failed step on a clean teardown")
	}
}

func TestTeardownSkipsBucketRemoval(t *testing.T) {
	rec := newRecorder()
	o := newTestOrchestrator(t, rec, Options{SkipBucketRemoval: true})

	report, err := o.Teardown(context.Background())
	if err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	for _, call := range rec.calls {
		if call == "bucket.Delete" || call == "endpoint.Delete" {
			t.Errorf("skipped step was executed: %s", call)
		}
	}

	statuses := stepStatuses(report)
	if statuses["delete-bucket"] != StatusSkipped {
		t.Errorf("delete-bucket = %s, want skipped", statuses["delete-bucket"])
	}
}

func TestReportJSON(t *testing.T) {
	rec := newRecorder()
	o := newTestOrchestrator(t, rec, Options{})

	report, err := o.Teardown(context.Background())
	if err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	out, err := report.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	for _, want := range []string{`"action": "teardown"`, `"delete-database"`, `"status": "ok"`} {
		if !strings.Contains(out, want) {
			t.Errorf("report JSON missing %s:\n%s", want, out)
		}
	}
}
