// Package main implements the lakectl command: provisioning and tearing
// down the data lake resources (S3 bucket, Glue service role, catalog
// database and tables, and the optional S3 gateway VPC endpoint).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lakeops/lakectl/aws"
	"github.com/lakeops/lakectl/bucket"
	"github.com/lakeops/lakectl/catalog"
	"github.com/lakeops/lakectl/config"
	"github.com/lakeops/lakectl/endpoint"
	"github.com/lakeops/lakectl/logging"
	"github.com/lakeops/lakectl/orchestrator"
	"github.com/lakeops/lakectl/role"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("lakectl", flag.ExitOnError)

	setup := fs.Bool("setup", false, "Create the data lake resources")
	teardown := fs.Bool("teardown", false, "Destroy the data lake resources")

	initVPCEndpoint := fs.Bool("init-vpc-endpoint", false, "Create the S3 gateway VPC endpoint during setup")
	removeVPCEndpoint := fs.Bool("remove-vpc-endpoint", false, "Delete the S3 gateway VPC endpoint during teardown")
	skipLoadData := fs.Bool("skip-load-data", false, "Skip uploading the sample data during setup")
	skipBucketRemoval := fs.Bool("skip-bucket-removal", false, "Leave the bucket and its objects in place during teardown")

	configPath := fs.String("config", "dwh.cfg", "Path to the configuration file")
	dataDir := fs.String("data-dir", "data", "Directory holding sample data, laid out as <source>/landing/<file>")
	schemaDir := fs.String("schema-dir", "schemas", "Directory holding table schema files")
	logLevel := fs.String("log-level", "", "Log level (debug|info|warn|error)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	logging.Init(*logLevel)

	if *setup == *teardown {
		fs.Usage()
		return fmt.Errorf("specify exactly one of -setup or -teardown")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := aws.NewS3Client(s3.NewFromConfig(awsCfg))
	iamClient := aws.NewIAMClient(iam.NewFromConfig(awsCfg))
	glueClient := aws.NewGlueClient(glue.NewFromConfig(awsCfg))
	ec2Client := aws.NewEC2Client(ec2.NewFromConfig(awsCfg))

	orch := orchestrator.New(
		bucket.New(s3Client, cfg.BucketName, cfg.Region),
		role.New(iamClient, cfg.RoleName, cfg.GluePolicy, cfg.S3Policy),
		catalog.New(glueClient, cfg.DatabaseName, cfg.BucketName),
		endpoint.New(ec2Client, cfg.VPCID, cfg.RouteTableID, cfg.Region),
		orchestrator.Options{
			InitVPCEndpoint:   *initVPCEndpoint,
			RemoveVPCEndpoint: *removeVPCEndpoint,
			SkipLoadData:      *skipLoadData,
			SkipBucketRemoval: *skipBucketRemoval,
			DataDir:           *dataDir,
			SchemaDir:         *schemaDir,
		},
	)

	var report *orchestrator.Report
	var runErr error
	if *setup {
		report, runErr = orch.Setup(ctx)
	} else {
		report, runErr = orch.Teardown(ctx)
	}

	fmt.Print(report.String())
	if runErr != nil {
		return runErr
	}
	return nil
}
