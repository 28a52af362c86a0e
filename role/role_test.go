package role

import (
	"context"
	"strings"
	"testing"

	"github.com/lakeops/lakectl/integration/mock"
)

func newTestRole(client *mock.IAMClient) *Role {
	return New(client, "glue-service-role", "glue-general-access", "s3-landing-access")
}

func TestEnsureCreatesRole(t *testing.T) {
	client := mock.NewIAMClient()
	r := newTestRole(client)

	if err := r.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	record, ok := client.Roles["glue-service-role"]
	if !ok {
		t.Fatal("role was not created")
	}
	if !strings.Contains(record.TrustPolicy, "glue.amazonaws.com") {
		t.Errorf("trust policy missing glue service principal: %s", record.TrustPolicy)
	}
	if !strings.Contains(record.TrustPolicy, "sts:AssumeRole") {
		t.Errorf("trust policy missing sts:AssumeRole: %s", record.TrustPolicy)
	}
}

func TestEnsureReusesExistingRole(t *testing.T) {
	client := mock.NewIAMClient()
	r := newTestRole(client)

	if err := r.Ensure(context.Background()); err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	if err := r.Ensure(context.Background()); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}

	sawGetRole := false
	for _, call := range client.Calls {
		if call == "GetRole" {
			sawGetRole = true
		}
	}
	if !sawGetRole {
		t.Errorf("expected existing role to be verified with GetRole, calls: %v", client.Calls)
	}
}

func TestAttachPolicies(t *testing.T) {
	client := mock.NewIAMClient()
	r := newTestRole(client)
	ctx := context.Background()

	if err := r.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := r.AttachPolicies(ctx, "stedi-lakehouse"); err != nil {
		t.Fatalf("AttachPolicies: %v", err)
	}

	record := client.Roles["glue-service-role"]
	glueDoc, ok := record.Policies["glue-general-access"]
	if !ok {
		t.Fatal("glue policy was not attached")
	}
	if !strings.Contains(glueDoc, `"glue:*"`) {
		t.Errorf("glue policy missing glue:* action: %s", glueDoc)
	}

	s3Doc, ok := record.Policies["s3-landing-access"]
	if !ok {
		t.Fatal("s3 policy was not attached")
	}
	for _, want := range []string{
		"arn:aws:s3:::stedi-lakehouse",
		"arn:aws:s3:::stedi-lakehouse/*",
		"s3:*Object",
	} {
		if !strings.Contains(s3Doc, want) {
			t.Errorf("s3 policy missing %q: %s", want, s3Doc)
		}
	}
}

func TestAttachPoliciesOverwrites(t *testing.T) {
	client := mock.NewIAMClient()
	r := newTestRole(client)
	ctx := context.Background()

	if err := r.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := r.AttachPolicies(ctx, "first-bucket"); err != nil {
		t.Fatalf("first AttachPolicies: %v", err)
	}
	if err := r.AttachPolicies(ctx, "second-bucket"); err != nil {
		t.Fatalf("second AttachPolicies: %v", err)
	}

	s3Doc := client.Roles["glue-service-role"].Policies["s3-landing-access"]
	if strings.Contains(s3Doc, "first-bucket") {
		t.Errorf("s3 policy still references the old bucket: %s", s3Doc)
	}
	if !strings.Contains(s3Doc, "second-bucket") {
		t.Errorf("s3 policy does not reference the new bucket: %s", s3Doc)
	}
}

func TestDeleteRemovesPoliciesThenRole(t *testing.T) {
	client := mock.NewIAMClient()
	r := newTestRole(client)
	ctx := context.Background()

	if err := r.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := r.AttachPolicies(ctx, "stedi-lakehouse"); err != nil {
		t.Fatalf("AttachPolicies: %v", err)
	}
	if err := r.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := client.Roles["glue-service-role"]; ok {
		t.Error("role still exists after Delete")
	}

	deletes := 0
	for _, call := range client.Calls {
		if call == "DeleteRolePolicy" {
			deletes++
		}
	}
	if deletes != 2 {
		t.Errorf("expected 2 inline policy deletions, got %d (calls: %v)", deletes, client.Calls)
	}
}

func TestDeleteMissingRole(t *testing.T) {
	client := mock.NewIAMClient()
	r := newTestRole(client)

	if err := r.Delete(context.Background()); err != nil {
		t.Fatalf("Delete on missing role: %v", err)
	}
}

func TestTrustPolicyOmitsOptionalFields(t *testing.T) {
	doc, err := TrustPolicy().JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	for _, field := range []string{"Sid", "Resource", "Condition"} {
		if strings.Contains(doc, field) {
			t.Errorf("trust policy should omit %s: %s", field, doc)
		}
	}
}
