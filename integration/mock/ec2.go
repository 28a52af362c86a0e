package mock

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
)

// EC2Client is an in-memory implementation of aws.EC2API holding VPC
// endpoints.
type EC2Client struct {
	Endpoints []types.VpcEndpoint
	Calls     []string

	nextID int

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// NewEC2Client creates an empty fake EC2.
func NewEC2Client() *EC2Client {
	return &EC2Client{}
}

func (m *EC2Client) record(op string) {
	m.Calls = append(m.Calls, op)
}

// CreateVpcEndpoint registers a new endpoint with a generated id.
func (m *EC2Client) CreateVpcEndpoint(ctx context.Context, params *ec2.CreateVpcEndpointInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcEndpointOutput, error) {
	m.record("CreateVpcEndpoint")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.nextID++
	endpoint := types.VpcEndpoint{
		VpcEndpointId:   sdkaws.String(fmt.Sprintf("vpce-%08d", m.nextID)),
		VpcEndpointType: params.VpcEndpointType,
		VpcId:           params.VpcId,
		ServiceName:     params.ServiceName,
		RouteTableIds:   params.RouteTableIds,
		State:           types.StateAvailable,
	}
	m.Endpoints = append(m.Endpoints, endpoint)
	return &ec2.CreateVpcEndpointOutput{VpcEndpoint: &endpoint}, nil
}

// DescribeVpcEndpoints applies the vpc-id and service-name filters.
func (m *EC2Client) DescribeVpcEndpoints(ctx context.Context, params *ec2.DescribeVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcEndpointsOutput, error) {
	m.record("DescribeVpcEndpoints")
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	out := &ec2.DescribeVpcEndpointsOutput{}
	for _, endpoint := range m.Endpoints {
		if matchesFilters(endpoint, params.Filters) {
			out.VpcEndpoints = append(out.VpcEndpoints, endpoint)
		}
	}
	return out, nil
}

// DeleteVpcEndpoints removes the endpoints with the given ids.
func (m *EC2Client) DeleteVpcEndpoints(ctx context.Context, params *ec2.DeleteVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVpcEndpointsOutput, error) {
	m.record("DeleteVpcEndpoints")
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	for _, id := range params.VpcEndpointIds {
		index := -1
		for i, endpoint := range m.Endpoints {
			if sdkaws.ToString(endpoint.VpcEndpointId) == id {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, &smithy.GenericAPIError{
				Code:    "InvalidVpcEndpointId.NotFound",
				Message: fmt.Sprintf("endpoint %s does not exist", id),
			}
		}
		m.Endpoints = append(m.Endpoints[:index], m.Endpoints[index+1:]...)
	}
	return &ec2.DeleteVpcEndpointsOutput{}, nil
}

func matchesFilters(endpoint types.VpcEndpoint, filters []types.Filter) bool {
	for _, filter := range filters {
		var field string
		switch sdkaws.ToString(filter.Name) {
		case "vpc-id":
			field = sdkaws.ToString(endpoint.VpcId)
		case "service-name":
			field = sdkaws.ToString(endpoint.ServiceName)
		default:
			return false
		}

		matched := false
		for _, value := range filter.Values {
			if value == field {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
