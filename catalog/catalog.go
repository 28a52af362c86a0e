// Package catalog manages the Glue data catalog: the database, its
// visibility wait, and the external tables defined by schema files.
package catalog

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/lakeops/lakectl/aws"
	"github.com/lakeops/lakectl/logging"
	"github.com/lakeops/lakectl/retry"
	"github.com/lakeops/lakectl/schema"
)

// Glue has no managed waiter for database creation, so visibility is
// polled with GetDatabase.
var (
	waitDelay       = 5 * time.Second
	waitMaxAttempts = 20
)

// Catalog manages one Glue database and its tables backed by a single
// data lake bucket.
type Catalog struct {
	client     aws.GlueAPI
	database   string
	bucketName string
}

// New creates a Catalog manager for the named database. Table locations
// resolve under bucketName.
func New(client aws.GlueAPI, database, bucketName string) *Catalog {
	return &Catalog{client: client, database: database, bucketName: bucketName}
}

// Database returns the database name.
func (c *Catalog) Database() string {
	return c.database
}

// EnsureDatabase creates the database if it does not exist and waits
// until GetDatabase sees it.
func (c *Catalog) EnsureDatabase(ctx context.Context) error {
	err := retry.Do(ctx, "glue.CreateDatabase", func() error {
		_, err := c.client.CreateDatabase(ctx, &glue.CreateDatabaseInput{
			DatabaseInput: &gluetypes.DatabaseInput{
				Name:        sdkaws.String(c.database),
				Description: sdkaws.String("Data lake catalog database."),
				Parameters:  map[string]string{"created_by": "lakectl"},
			},
		})
		return err
	})
	if err != nil {
		if !retry.IsAlreadyExists(err) {
			return fmt.Errorf("create database %s: %w", c.database, err)
		}
		logging.Infof("database %s already exists, reusing", c.database)
	} else {
		logging.Infof("created database %s", c.database)
	}

	return c.waitForDatabase(ctx)
}

// waitForDatabase polls GetDatabase until the database is visible or
// the attempt ceiling is reached.
func (c *Catalog) waitForDatabase(ctx context.Context) error {
	for attempt := 1; attempt <= waitMaxAttempts; attempt++ {
		_, err := c.client.GetDatabase(ctx, &glue.GetDatabaseInput{
			Name: sdkaws.String(c.database),
		})
		if err == nil {
			logging.Debugf("database %s is visible", c.database)
			return nil
		}
		if !retry.IsNotFound(err) {
			return fmt.Errorf("get database %s: %w", c.database, err)
		}

		logging.Debugf("database %s not visible yet, attempt %d/%d", c.database, attempt, waitMaxAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitDelay):
		}
	}
	return fmt.Errorf("timed out waiting for database %s", c.database)
}

// CreateTable registers an external table for the given schema. An
// existing table is updated in place so schema file edits converge.
func (c *Catalog) CreateTable(ctx context.Context, table schema.Table) error {
	input := c.tableInput(table)

	err := retry.Do(ctx, "glue.CreateTable", func() error {
		_, err := c.client.CreateTable(ctx, &glue.CreateTableInput{
			DatabaseName: sdkaws.String(c.database),
			TableInput:   input,
		})
		return err
	})
	if err != nil {
		if !retry.IsAlreadyExists(err) {
			return fmt.Errorf("create table %s.%s: %w", c.database, table.Name, err)
		}
		logging.Infof("table %s.%s already exists, updating", c.database, table.Name)
		err = retry.Do(ctx, "glue.UpdateTable", func() error {
			_, err := c.client.UpdateTable(ctx, &glue.UpdateTableInput{
				DatabaseName: sdkaws.String(c.database),
				TableInput:   input,
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("update table %s.%s: %w", c.database, table.Name, err)
		}
		return nil
	}

	logging.Infof("created table %s.%s", c.database, table.Name)
	return nil
}

// CreateTables registers every table in order.
func (c *Catalog) CreateTables(ctx context.Context, tables []schema.Table) error {
	for _, table := range tables {
		if err := c.CreateTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) tableInput(table schema.Table) *gluetypes.TableInput {
	columns := make([]gluetypes.Column, 0, len(table.Columns))
	for _, col := range table.Columns {
		columns = append(columns, gluetypes.Column{
			Name: sdkaws.String(col.Name),
			Type: sdkaws.String(col.Type),
		})
	}

	location := fmt.Sprintf("s3://%s/%s", c.bucketName, table.Location)

	return &gluetypes.TableInput{
		Name:      sdkaws.String(table.Name),
		TableType: sdkaws.String("EXTERNAL_TABLE"),
		Parameters: map[string]string{
			"classification": table.Classification,
		},
		StorageDescriptor: &gluetypes.StorageDescriptor{
			Columns:      columns,
			Location:     sdkaws.String(location),
			InputFormat:  sdkaws.String(table.InputFormat),
			OutputFormat: sdkaws.String(table.OutputFormat),
			SerdeInfo: &gluetypes.SerDeInfo{
				SerializationLibrary: sdkaws.String(table.SerDeLibrary),
				Parameters: map[string]string{
					"classification": table.Classification,
				},
			},
		},
	}
}

// Delete removes every table and then the database. A database that
// does not exist counts as deleted.
func (c *Catalog) Delete(ctx context.Context) error {
	paginator := glue.NewGetTablesPaginator(c.client, &glue.GetTablesInput{
		DatabaseName: sdkaws.String(c.database),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if retry.IsNotFound(err) {
				logging.Infof("database %s does not exist, nothing to delete", c.database)
				return nil
			}
			return fmt.Errorf("list tables in %s: %w", c.database, err)
		}

		for _, table := range page.TableList {
			name := sdkaws.ToString(table.Name)
			err := retry.Do(ctx, "glue.DeleteTable", func() error {
				_, err := c.client.DeleteTable(ctx, &glue.DeleteTableInput{
					DatabaseName: sdkaws.String(c.database),
					Name:         sdkaws.String(name),
				})
				return err
			})
			if err != nil && !retry.IsNotFound(err) {
				return fmt.Errorf("delete table %s.%s: %w", c.database, name, err)
			}
			logging.Infof("deleted table %s.%s", c.database, name)
		}
	}

	err := retry.Do(ctx, "glue.DeleteDatabase", func() error {
		_, err := c.client.DeleteDatabase(ctx, &glue.DeleteDatabaseInput{
			Name: sdkaws.String(c.database),
		})
		return err
	})
	if err != nil {
		if retry.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete database %s: %w", c.database, err)
	}

	logging.Infof("deleted database %s", c.database)
	return nil
}
