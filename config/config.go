// Package config loads the static resource configuration for lakectl from an
// INI file. The loaded values identify every AWS resource the tool manages and
// are read-only for the lifetime of the process.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config holds the identifiers of all managed resources. Fields are populated
// once by Load and never mutated afterwards.
type Config struct {
	Region       string // AWS region for all clients
	BucketName   string // S3 bucket holding the landing zones
	VPCID        string // VPC for the optional S3 gateway endpoint
	RouteTableID string // Route table the gateway endpoint attaches to
	RoleName     string // IAM role assumed by the Glue service
	GluePolicy   string // Name of the inline Glue general-access policy
	S3Policy     string // Name of the inline bucket-access policy
	DatabaseName string // Glue catalog database
}

// iniKey maps a Config field to its section and key in the file.
type iniKey struct {
	section string
	key     string
	dst     *string
}

// Load reads the INI file at path and returns the populated configuration.
// A missing file, an unparsable file, or an empty required key is an error;
// there are no defaults.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := &Config{}
	keys := []iniKey{
		{"AWS", "REGION", &cfg.Region},
		{"S3", "S3_BUCKET_NAME", &cfg.BucketName},
		{"EC2", "VPC_ID", &cfg.VPCID},
		{"EC2", "ROUTE_TABLE_ID", &cfg.RouteTableID},
		{"IAM", "GLUE_ROLE_NAME", &cfg.RoleName},
		{"IAM", "GLUE_ROLE_POLICY_NAME", &cfg.GluePolicy},
		{"IAM", "S3_ROLE_POLICY_NAME", &cfg.S3Policy},
		{"GLUE", "DB_NAME", &cfg.DatabaseName},
	}
	for _, k := range keys {
		*k.dst = file.Section(k.section).Key(k.key).String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate ensures every required key carries a value.
func (c *Config) Validate() error {
	checks := []struct {
		value string
		name  string
	}{
		{c.Region, "AWS/REGION"},
		{c.BucketName, "S3/S3_BUCKET_NAME"},
		{c.VPCID, "EC2/VPC_ID"},
		{c.RouteTableID, "EC2/ROUTE_TABLE_ID"},
		{c.RoleName, "IAM/GLUE_ROLE_NAME"},
		{c.GluePolicy, "IAM/GLUE_ROLE_POLICY_NAME"},
		{c.S3Policy, "IAM/S3_ROLE_POLICY_NAME"},
		{c.DatabaseName, "GLUE/DB_NAME"},
	}
	for _, ck := range checks {
		if ck.value == "" {
			return fmt.Errorf("missing required key %s", ck.name)
		}
	}
	return nil
}
