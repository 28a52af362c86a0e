// Package role manages the IAM service role assumed by Glue, including
// its trust relationship and the two inline access policies.
package role

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/lakeops/lakectl/aws"
	"github.com/lakeops/lakectl/logging"
	"github.com/lakeops/lakectl/retry"
)

// Role manages a single named IAM role and its inline policies.
type Role struct {
	client     aws.IAMAPI
	name       string
	gluePolicy string
	s3Policy   string
}

// New creates a Role manager. gluePolicy and s3Policy are the names the
// two inline policies are stored under.
func New(client aws.IAMAPI, name, gluePolicy, s3Policy string) *Role {
	return &Role{
		client:     client,
		name:       name,
		gluePolicy: gluePolicy,
		s3Policy:   s3Policy,
	}
}

// Name returns the role name.
func (r *Role) Name() string {
	return r.name
}

// Ensure creates the role with the Glue trust policy. A role that
// already exists is verified with GetRole and reused.
func (r *Role) Ensure(ctx context.Context) error {
	trust, err := TrustPolicy().JSON()
	if err != nil {
		return err
	}

	err = retry.Do(ctx, "iam.CreateRole", func() error {
		_, err := r.client.CreateRole(ctx, &iam.CreateRoleInput{
			RoleName:                 sdkaws.String(r.name),
			AssumeRolePolicyDocument: sdkaws.String(trust),
			Description:              sdkaws.String("Service role assumed by AWS Glue to access data lake resources."),
		})
		return err
	})
	if err != nil {
		if !retry.IsAlreadyExists(err) {
			return fmt.Errorf("create role %s: %w", r.name, err)
		}
		logging.Infof("role %s already exists, reusing", r.name)
		return retry.Do(ctx, "iam.GetRole", func() error {
			_, err := r.client.GetRole(ctx, &iam.GetRoleInput{RoleName: sdkaws.String(r.name)})
			return err
		})
	}

	logging.Infof("created role %s", r.name)
	return nil
}

// AttachPolicies writes the Glue general access policy and the
// bucket-scoped S3 policy as inline policies. PutRolePolicy overwrites,
// so repeated setup runs converge on the same documents.
func (r *Role) AttachPolicies(ctx context.Context, bucketName string) error {
	glueDoc, err := GlueAccessPolicy().JSON()
	if err != nil {
		return err
	}
	if err := r.putPolicy(ctx, r.gluePolicy, glueDoc); err != nil {
		return err
	}

	s3Doc, err := S3AccessPolicy(bucketName).JSON()
	if err != nil {
		return err
	}
	if err := r.putPolicy(ctx, r.s3Policy, s3Doc); err != nil {
		return err
	}

	logging.Infof("attached inline policies %s and %s to role %s", r.gluePolicy, r.s3Policy, r.name)
	return nil
}

func (r *Role) putPolicy(ctx context.Context, policyName, document string) error {
	err := retry.Do(ctx, "iam.PutRolePolicy", func() error {
		_, err := r.client.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
			RoleName:       sdkaws.String(r.name),
			PolicyName:     sdkaws.String(policyName),
			PolicyDocument: sdkaws.String(document),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("put policy %s on role %s: %w", policyName, r.name, err)
	}
	return nil
}

// Delete removes all inline policies and then the role itself. A role
// that does not exist counts as deleted.
func (r *Role) Delete(ctx context.Context) error {
	var policyNames []string
	err := retry.Do(ctx, "iam.ListRolePolicies", func() error {
		var marker *string
		policyNames = policyNames[:0]
		for {
			out, err := r.client.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
				RoleName: sdkaws.String(r.name),
				Marker:   marker,
			})
			if err != nil {
				return err
			}
			policyNames = append(policyNames, out.PolicyNames...)
			if !out.IsTruncated {
				return nil
			}
			marker = out.Marker
		}
	})
	if err != nil {
		if retry.IsNotFound(err) {
			logging.Infof("role %s does not exist, nothing to delete", r.name)
			return nil
		}
		return fmt.Errorf("list policies on role %s: %w", r.name, err)
	}

	for _, policyName := range policyNames {
		err := retry.Do(ctx, "iam.DeleteRolePolicy", func() error {
			_, err := r.client.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
				RoleName:   sdkaws.String(r.name),
				PolicyName: sdkaws.String(policyName),
			})
			return err
		})
		if err != nil && !retry.IsNotFound(err) {
			return fmt.Errorf("delete policy %s from role %s: %w", policyName, r.name, err)
		}
		logging.Debugf("deleted inline policy %s from role %s", policyName, r.name)
	}

	err = retry.Do(ctx, "iam.DeleteRole", func() error {
		_, err := r.client.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: sdkaws.String(r.name)})
		return err
	})
	if err != nil {
		if retry.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete role %s: %w", r.name, err)
	}

	logging.Infof("deleted role %s", r.name)
	return nil
}
