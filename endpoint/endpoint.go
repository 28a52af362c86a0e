// Package endpoint manages the gateway VPC endpoint that gives Glue
// jobs inside the VPC a route to S3. Endpoints are looked up by VPC and
// service name rather than tracked in local state, so teardown works
// from a fresh checkout.
package endpoint

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/lakeops/lakectl/aws"
	"github.com/lakeops/lakectl/logging"
	"github.com/lakeops/lakectl/retry"
)

// Endpoints manages the S3 gateway endpoint for one VPC and route table.
type Endpoints struct {
	client       aws.EC2API
	vpcID        string
	routeTableID string
	region       string
}

// New creates an Endpoints manager.
func New(client aws.EC2API, vpcID, routeTableID, region string) *Endpoints {
	return &Endpoints{
		client:       client,
		vpcID:        vpcID,
		routeTableID: routeTableID,
		region:       region,
	}
}

// ServiceName returns the regional S3 service name the endpoint routes to.
func (e *Endpoints) ServiceName() string {
	return fmt.Sprintf("com.amazonaws.%s.s3", e.region)
}

// Create makes a gateway endpoint to S3 attached to the route table. If
// an endpoint for this VPC and service already covers the route table,
// it is reused.
func (e *Endpoints) Create(ctx context.Context) error {
	existing, err := e.Find(ctx)
	if err != nil {
		return err
	}
	if existing != "" {
		logging.Infof("vpc endpoint %s already routes %s in %s, reusing", existing, e.ServiceName(), e.vpcID)
		return nil
	}

	var endpointID string
	err = retry.Do(ctx, "ec2.CreateVpcEndpoint", func() error {
		out, err := e.client.CreateVpcEndpoint(ctx, &ec2.CreateVpcEndpointInput{
			VpcEndpointType: ec2types.VpcEndpointTypeGateway,
			VpcId:           sdkaws.String(e.vpcID),
			ServiceName:     sdkaws.String(e.ServiceName()),
			RouteTableIds:   []string{e.routeTableID},
		})
		if err != nil {
			return err
		}
		endpointID = sdkaws.ToString(out.VpcEndpoint.VpcEndpointId)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create vpc endpoint for %s: %w", e.ServiceName(), err)
	}

	logging.Infof("created vpc endpoint %s for %s in %s", endpointID, e.ServiceName(), e.vpcID)
	return nil
}

// Find returns the id of the endpoint for this VPC and service whose
// route tables include the configured route table, or "" when none
// matches.
func (e *Endpoints) Find(ctx context.Context) (string, error) {
	var out *ec2.DescribeVpcEndpointsOutput
	err := retry.Do(ctx, "ec2.DescribeVpcEndpoints", func() error {
		var err error
		out, err = e.client.DescribeVpcEndpoints(ctx, &ec2.DescribeVpcEndpointsInput{
			Filters: []ec2types.Filter{
				{Name: sdkaws.String("vpc-id"), Values: []string{e.vpcID}},
				{Name: sdkaws.String("service-name"), Values: []string{e.ServiceName()}},
			},
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("describe vpc endpoints in %s: %w", e.vpcID, err)
	}

	for _, ep := range out.VpcEndpoints {
		for _, rtb := range ep.RouteTableIds {
			if rtb == e.routeTableID {
				return sdkaws.ToString(ep.VpcEndpointId), nil
			}
		}
	}
	return "", nil
}

// Delete removes the endpoint found for this VPC and service. Finding
// no endpoint counts as deleted.
func (e *Endpoints) Delete(ctx context.Context) error {
	endpointID, err := e.Find(ctx)
	if err != nil {
		return err
	}
	if endpointID == "" {
		logging.Infof("no vpc endpoint for %s in %s, nothing to delete", e.ServiceName(), e.vpcID)
		return nil
	}

	err = retry.Do(ctx, "ec2.DeleteVpcEndpoints", func() error {
		_, err := e.client.DeleteVpcEndpoints(ctx, &ec2.DeleteVpcEndpointsInput{
			VpcEndpointIds: []string{endpointID},
		})
		return err
	})
	if err != nil {
		if retry.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete vpc endpoint %s: %w", endpointID, err)
	}

	logging.Infof("deleted vpc endpoint %s", endpointID)
	return nil
}
