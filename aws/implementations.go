// Package aws service wrappers. This file contains the concrete
// implementations of the service interfaces, each delegating to the
// corresponding SDK client.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ClientImpl implements S3API using the AWS SDK.
type S3ClientImpl struct {
	client *s3.Client
}

// NewS3Client creates a new S3ClientImpl instance
func NewS3Client(client *s3.Client) *S3ClientImpl {
	return &S3ClientImpl{client: client}
}

// HeadBucket implements the S3API interface for bucket existence checks
func (c *S3ClientImpl) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return c.client.HeadBucket(ctx, params, optFns...)
}

// CreateBucket implements the S3API interface for bucket creation
func (c *S3ClientImpl) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	return c.client.CreateBucket(ctx, params, optFns...)
}

// PutPublicAccessBlock implements the S3API interface for access block configuration
func (c *S3ClientImpl) PutPublicAccessBlock(ctx context.Context, params *s3.PutPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error) {
	return c.client.PutPublicAccessBlock(ctx, params, optFns...)
}

// PutObject implements the S3API interface for object upload
func (c *S3ClientImpl) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return c.client.PutObject(ctx, params, optFns...)
}

// ListObjectsV2 implements the S3API interface for object listing
func (c *S3ClientImpl) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return c.client.ListObjectsV2(ctx, params, optFns...)
}

// DeleteObjects implements the S3API interface for batch object deletion
func (c *S3ClientImpl) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	return c.client.DeleteObjects(ctx, params, optFns...)
}

// DeleteBucket implements the S3API interface for bucket deletion
func (c *S3ClientImpl) DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	return c.client.DeleteBucket(ctx, params, optFns...)
}

// IAMClientImpl implements IAMAPI using the AWS SDK.
type IAMClientImpl struct {
	client *iam.Client
}

// NewIAMClient creates a new IAMClientImpl instance
func NewIAMClient(client *iam.Client) *IAMClientImpl {
	return &IAMClientImpl{client: client}
}

// CreateRole implements the IAMAPI interface for role creation
func (c *IAMClientImpl) CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	return c.client.CreateRole(ctx, params, optFns...)
}

// GetRole implements the IAMAPI interface for role lookup
func (c *IAMClientImpl) GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	return c.client.GetRole(ctx, params, optFns...)
}

// PutRolePolicy implements the IAMAPI interface for inline policy upsert
func (c *IAMClientImpl) PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
	return c.client.PutRolePolicy(ctx, params, optFns...)
}

// ListRolePolicies implements the IAMAPI interface for inline policy listing
func (c *IAMClientImpl) ListRolePolicies(ctx context.Context, params *iam.ListRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListRolePoliciesOutput, error) {
	return c.client.ListRolePolicies(ctx, params, optFns...)
}

// DeleteRolePolicy implements the IAMAPI interface for inline policy deletion
func (c *IAMClientImpl) DeleteRolePolicy(ctx context.Context, params *iam.DeleteRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error) {
	return c.client.DeleteRolePolicy(ctx, params, optFns...)
}

// DeleteRole implements the IAMAPI interface for role deletion
func (c *IAMClientImpl) DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	return c.client.DeleteRole(ctx, params, optFns...)
}

// GlueClientImpl implements GlueAPI using the AWS SDK.
type GlueClientImpl struct {
	client *glue.Client
}

// NewGlueClient creates a new GlueClientImpl instance
func NewGlueClient(client *glue.Client) *GlueClientImpl {
	return &GlueClientImpl{client: client}
}

// CreateDatabase implements the GlueAPI interface for database creation
func (c *GlueClientImpl) CreateDatabase(ctx context.Context, params *glue.CreateDatabaseInput, optFns ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error) {
	return c.client.CreateDatabase(ctx, params, optFns...)
}

// GetDatabase implements the GlueAPI interface for database lookup
func (c *GlueClientImpl) GetDatabase(ctx context.Context, params *glue.GetDatabaseInput, optFns ...func(*glue.Options)) (*glue.GetDatabaseOutput, error) {
	return c.client.GetDatabase(ctx, params, optFns...)
}

// CreateTable implements the GlueAPI interface for table creation
func (c *GlueClientImpl) CreateTable(ctx context.Context, params *glue.CreateTableInput, optFns ...func(*glue.Options)) (*glue.CreateTableOutput, error) {
	return c.client.CreateTable(ctx, params, optFns...)
}

// UpdateTable implements the GlueAPI interface for table overwrite
func (c *GlueClientImpl) UpdateTable(ctx context.Context, params *glue.UpdateTableInput, optFns ...func(*glue.Options)) (*glue.UpdateTableOutput, error) {
	return c.client.UpdateTable(ctx, params, optFns...)
}

// GetTables implements the GlueAPI interface for table listing
func (c *GlueClientImpl) GetTables(ctx context.Context, params *glue.GetTablesInput, optFns ...func(*glue.Options)) (*glue.GetTablesOutput, error) {
	return c.client.GetTables(ctx, params, optFns...)
}

// DeleteTable implements the GlueAPI interface for table deletion
func (c *GlueClientImpl) DeleteTable(ctx context.Context, params *glue.DeleteTableInput, optFns ...func(*glue.Options)) (*glue.DeleteTableOutput, error) {
	return c.client.DeleteTable(ctx, params, optFns...)
}

// DeleteDatabase implements the GlueAPI interface for database deletion
func (c *GlueClientImpl) DeleteDatabase(ctx context.Context, params *glue.DeleteDatabaseInput, optFns ...func(*glue.Options)) (*glue.DeleteDatabaseOutput, error) {
	return c.client.DeleteDatabase(ctx, params, optFns...)
}

// EC2ClientImpl implements EC2API using the AWS SDK.
type EC2ClientImpl struct {
	client *ec2.Client
}

// NewEC2Client creates a new EC2ClientImpl instance
func NewEC2Client(client *ec2.Client) *EC2ClientImpl {
	return &EC2ClientImpl{client: client}
}

// CreateVpcEndpoint implements the EC2API interface for endpoint creation
func (c *EC2ClientImpl) CreateVpcEndpoint(ctx context.Context, params *ec2.CreateVpcEndpointInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcEndpointOutput, error) {
	return c.client.CreateVpcEndpoint(ctx, params, optFns...)
}

// DescribeVpcEndpoints implements the EC2API interface for endpoint lookup
func (c *EC2ClientImpl) DescribeVpcEndpoints(ctx context.Context, params *ec2.DescribeVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcEndpointsOutput, error) {
	return c.client.DescribeVpcEndpoints(ctx, params, optFns...)
}

// DeleteVpcEndpoints implements the EC2API interface for endpoint deletion
func (c *EC2ClientImpl) DeleteVpcEndpoints(ctx context.Context, params *ec2.DeleteVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVpcEndpointsOutput, error) {
	return c.client.DeleteVpcEndpoints(ctx, params, optFns...)
}
