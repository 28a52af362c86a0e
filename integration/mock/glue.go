package mock

import (
	"context"
	"sort"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
)

// GlueClient is an in-memory implementation of aws.GlueAPI.
type GlueClient struct {
	// Databases maps database name to table name to table input.
	Databases map[string]map[string]types.TableInput
	// Parameters records the DatabaseInput parameters per database.
	Parameters map[string]map[string]string
	Calls      []string

	// NotVisibleFor makes the next N GetDatabase calls report the database
	// as absent, modeling catalog eventual consistency.
	NotVisibleFor int

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// NewGlueClient creates an empty fake Glue catalog.
func NewGlueClient() *GlueClient {
	return &GlueClient{
		Databases:  make(map[string]map[string]types.TableInput),
		Parameters: make(map[string]map[string]string),
	}
}

func (m *GlueClient) record(op string) {
	m.Calls = append(m.Calls, op)
}

// CreateDatabase creates the database or fails if it exists.
func (m *GlueClient) CreateDatabase(ctx context.Context, params *glue.CreateDatabaseInput, optFns ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error) {
	m.record("CreateDatabase")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.DatabaseInput.Name)
	if _, ok := m.Databases[name]; ok {
		return nil, &types.AlreadyExistsException{}
	}
	m.Databases[name] = make(map[string]types.TableInput)
	m.Parameters[name] = params.DatabaseInput.Parameters
	return &glue.CreateDatabaseOutput{}, nil
}

// GetDatabase reports database existence, honoring NotVisibleFor.
func (m *GlueClient) GetDatabase(ctx context.Context, params *glue.GetDatabaseInput, optFns ...func(*glue.Options)) (*glue.GetDatabaseOutput, error) {
	m.record("GetDatabase")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.Name)
	if _, ok := m.Databases[name]; !ok {
		return nil, &types.EntityNotFoundException{}
	}
	if m.NotVisibleFor > 0 {
		m.NotVisibleFor--
		return nil, &types.EntityNotFoundException{}
	}
	return &glue.GetDatabaseOutput{
		Database: &types.Database{Name: params.Name},
	}, nil
}

// CreateTable creates the table or fails if it exists.
func (m *GlueClient) CreateTable(ctx context.Context, params *glue.CreateTableInput, optFns ...func(*glue.Options)) (*glue.CreateTableOutput, error) {
	m.record("CreateTable")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	tables, ok := m.Databases[sdkaws.ToString(params.DatabaseName)]
	if !ok {
		return nil, &types.EntityNotFoundException{}
	}
	name := sdkaws.ToString(params.TableInput.Name)
	if _, ok := tables[name]; ok {
		return nil, &types.AlreadyExistsException{}
	}
	tables[name] = *params.TableInput
	return &glue.CreateTableOutput{}, nil
}

// UpdateTable overwrites an existing table definition.
func (m *GlueClient) UpdateTable(ctx context.Context, params *glue.UpdateTableInput, optFns ...func(*glue.Options)) (*glue.UpdateTableOutput, error) {
	m.record("UpdateTable")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	tables, ok := m.Databases[sdkaws.ToString(params.DatabaseName)]
	if !ok {
		return nil, &types.EntityNotFoundException{}
	}
	name := sdkaws.ToString(params.TableInput.Name)
	if _, ok := tables[name]; !ok {
		return nil, &types.EntityNotFoundException{}
	}
	tables[name] = *params.TableInput
	return &glue.UpdateTableOutput{}, nil
}

// GetTables lists tables in one page, sorted by name.
func (m *GlueClient) GetTables(ctx context.Context, params *glue.GetTablesInput, optFns ...func(*glue.Options)) (*glue.GetTablesOutput, error) {
	m.record("GetTables")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	tables, ok := m.Databases[sdkaws.ToString(params.DatabaseName)]
	if !ok {
		return nil, &types.EntityNotFoundException{}
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &glue.GetTablesOutput{}
	for _, name := range names {
		tbl := tables[name]
		out.TableList = append(out.TableList, types.Table{
			Name:              tbl.Name,
			StorageDescriptor: tbl.StorageDescriptor,
		})
	}
	return out, nil
}

// DeleteTable removes a table.
func (m *GlueClient) DeleteTable(ctx context.Context, params *glue.DeleteTableInput, optFns ...func(*glue.Options)) (*glue.DeleteTableOutput, error) {
	m.record("DeleteTable")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	tables, ok := m.Databases[sdkaws.ToString(params.DatabaseName)]
	if !ok {
		return nil, &types.EntityNotFoundException{}
	}
	name := sdkaws.ToString(params.Name)
	if _, ok := tables[name]; !ok {
		return nil, &types.EntityNotFoundException{}
	}
	delete(tables, name)
	return &glue.DeleteTableOutput{}, nil
}

// DeleteDatabase removes the database and everything in it.
func (m *GlueClient) DeleteDatabase(ctx context.Context, params *glue.DeleteDatabaseInput, optFns ...func(*glue.Options)) (*glue.DeleteDatabaseOutput, error) {
	m.record("DeleteDatabase")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	name := sdkaws.ToString(params.Name)
	if _, ok := m.Databases[name]; !ok {
		return nil, &types.EntityNotFoundException{}
	}
	delete(m.Databases, name)
	delete(m.Parameters, name)
	return &glue.DeleteDatabaseOutput{}, nil
}
