package role

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// PolicyDocument is an IAM policy document in its wire form.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is a single policy statement. Optional fields are omitted
// from the marshaled document when empty.
type Statement struct {
	Sid       string                         `json:"Sid,omitempty"`
	Effect    string                         `json:"Effect"`
	Principal map[string]string              `json:"Principal,omitempty"`
	Action    []string                       `json:"Action"`
	Resource  []string                       `json:"Resource,omitempty"`
	Condition map[string]map[string][]string `json:"Condition,omitempty"`
}

// JSON renders the document for the IAM API.
func (d PolicyDocument) JSON() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal policy document: %w", err)
	}
	return string(raw), nil
}

// TrustPolicy allows the Glue service to assume the role.
func TrustPolicy() PolicyDocument {
	return PolicyDocument{
		Version: "2012-10-17",
		Statement: []Statement{
			{
				Effect:    "Allow",
				Principal: map[string]string{"Service": "glue.amazonaws.com"},
				Action:    []string{"sts:AssumeRole"},
			},
		},
	}
}

// GlueAccessPolicy grants the permissions the Glue service needs to run
// crawlers and jobs: catalog access, network interface management, and
// the aws-glue-* scratch buckets.
func GlueAccessPolicy() PolicyDocument {
	return PolicyDocument{
		Version: "2012-10-17",
		Statement: []Statement{
			{
				Effect: "Allow",
				Action: []string{
					"glue:*",
					"s3:GetBucketLocation",
					"s3:ListBucket",
					"s3:ListAllMyBuckets",
					"s3:GetBucketAcl",
					"ec2:DescribeVpcEndpoints",
					"ec2:DescribeRouteTables",
					"ec2:CreateNetworkInterface",
					"ec2:DeleteNetworkInterface",
					"ec2:DescribeNetworkInterfaces",
					"ec2:DescribeSecurityGroups",
					"ec2:DescribeSubnets",
					"ec2:DescribeVpcAttribute",
					"iam:ListRolePolicies",
					"iam:GetRole",
					"iam:GetRolePolicy",
					"cloudwatch:PutMetricData",
				},
				Resource: []string{"*"},
			},
			{
				Effect:   "Allow",
				Action:   []string{"s3:CreateBucket", "s3:PutBucketPublicAccessBlock"},
				Resource: []string{"arn:aws:s3:::aws-glue-*"},
			},
			{
				Effect: "Allow",
				Action: []string{"s3:GetObject", "s3:PutObject", "s3:DeleteObject"},
				Resource: []string{
					"arn:aws:s3:::aws-glue-*/*",
					"arn:aws:s3:::*/*aws-glue-*/*",
				},
			},
			{
				Effect:   "Allow",
				Action:   []string{"s3:GetObject"},
				Resource: []string{"arn:aws:s3:::crawler-public*", "arn:aws:s3:::aws-glue-*"},
			},
			{
				Effect: "Allow",
				Action: []string{
					"logs:CreateLogGroup",
					"logs:CreateLogStream",
					"logs:PutLogEvents",
					"logs:AssociateKmsKey",
				},
				Resource: []string{"arn:aws:logs:*:*:/aws-glue/*"},
			},
			{
				Effect: "Allow",
				Action: []string{"ec2:CreateTags", "ec2:DeleteTags"},
				Condition: map[string]map[string][]string{
					"ForAllValues:StringEquals": {
						"aws:TagKeys": {"aws-glue-service-resource"},
					},
				},
				Resource: []string{
					"arn:aws:ec2:*:*:network-interface/*",
					"arn:aws:ec2:*:*:security-group/*",
					"arn:aws:ec2:*:*:instance/*",
				},
			},
		},
	}
}

// S3AccessPolicy grants list and object access scoped to a single
// bucket.
func S3AccessPolicy(bucketName string) PolicyDocument {
	return PolicyDocument{
		Version: "2012-10-17",
		Statement: []Statement{
			{
				Sid:      "ListObjectsInBucket",
				Effect:   "Allow",
				Action:   []string{"s3:ListBucket"},
				Resource: []string{fmt.Sprintf("arn:aws:s3:::%s", bucketName)},
			},
			{
				Sid:      "AllObjectActions",
				Effect:   "Allow",
				Action:   []string{"s3:*Object"},
				Resource: []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucketName)},
			},
		},
	}
}
