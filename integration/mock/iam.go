package mock

import (
	"context"
	"sort"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// RoleRecord is the fake's view of an IAM role.
type RoleRecord struct {
	TrustPolicy string
	// Policies maps inline policy name to document.
	Policies map[string]string
}

// IAMClient is an in-memory implementation of aws.IAMAPI.
type IAMClient struct {
	Roles map[string]*RoleRecord
	Calls []string

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// NewIAMClient creates an empty fake IAM.
func NewIAMClient() *IAMClient {
	return &IAMClient{Roles: make(map[string]*RoleRecord)}
}

func (m *IAMClient) record(op string) {
	m.Calls = append(m.Calls, op)
}

// CreateRole creates the role or fails if it exists.
func (m *IAMClient) CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	m.record("CreateRole")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.RoleName)
	if _, ok := m.Roles[name]; ok {
		return nil, &types.EntityAlreadyExistsException{}
	}
	m.Roles[name] = &RoleRecord{
		TrustPolicy: sdkaws.ToString(params.AssumeRolePolicyDocument),
		Policies:    make(map[string]string),
	}
	return &iam.CreateRoleOutput{
		Role: &types.Role{RoleName: params.RoleName},
	}, nil
}

// GetRole returns the role description.
func (m *IAMClient) GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	m.record("GetRole")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.RoleName)
	if _, ok := m.Roles[name]; !ok {
		return nil, &types.NoSuchEntityException{}
	}
	return &iam.GetRoleOutput{
		Role: &types.Role{RoleName: params.RoleName},
	}, nil
}

// PutRolePolicy upserts an inline policy.
func (m *IAMClient) PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
	m.record("PutRolePolicy")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	role, ok := m.Roles[sdkaws.ToString(params.RoleName)]
	if !ok {
		return nil, &types.NoSuchEntityException{}
	}
	role.Policies[sdkaws.ToString(params.PolicyName)] = sdkaws.ToString(params.PolicyDocument)
	return &iam.PutRolePolicyOutput{}, nil
}

// ListRolePolicies lists inline policy names in one page, sorted.
func (m *IAMClient) ListRolePolicies(ctx context.Context, params *iam.ListRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListRolePoliciesOutput, error) {
	m.record("ListRolePolicies")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	role, ok := m.Roles[sdkaws.ToString(params.RoleName)]
	if !ok {
		return nil, &types.NoSuchEntityException{}
	}

	names := make([]string, 0, len(role.Policies))
	for name := range role.Policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return &iam.ListRolePoliciesOutput{PolicyNames: names}, nil
}

// DeleteRolePolicy removes an inline policy.
func (m *IAMClient) DeleteRolePolicy(ctx context.Context, params *iam.DeleteRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error) {
	m.record("DeleteRolePolicy")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	role, ok := m.Roles[sdkaws.ToString(params.RoleName)]
	if !ok {
		return nil, &types.NoSuchEntityException{}
	}
	name := sdkaws.ToString(params.PolicyName)
	if _, ok := role.Policies[name]; !ok {
		return nil, &types.NoSuchEntityException{}
	}
	delete(role.Policies, name)
	return &iam.DeleteRolePolicyOutput{}, nil
}

// DeleteRole removes the role, refusing while inline policies remain.
func (m *IAMClient) DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	m.record("DeleteRole")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.RoleName)
	role, ok := m.Roles[name]
	if !ok {
		return nil, &types.NoSuchEntityException{}
	}
	if len(role.Policies) > 0 {
		return nil, &types.DeleteConflictException{}
	}
	delete(m.Roles, name)
	return &iam.DeleteRoleOutput{}, nil
}
