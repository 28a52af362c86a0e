// Package schema loads Glue table definitions from JSON files. Each file
// describes one table; the table name is the file's base name without the
// .json extension.
package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Defaults applied when a schema file omits the corresponding field.
// JSON lines scanned through the openx SerDe is the layout the sample
// data is stored in.
const (
	DefaultClassification = "json"
	DefaultSerDeLibrary   = "org.openx.data.jsonserde.JsonSerDe"
	DefaultInputFormat    = "org.apache.hadoop.mapred.TextInputFormat"
	DefaultOutputFormat   = "org.apache.hadoop.hive.ql.io.HiveIgnoreKeyTextOutputFormat"
)

// Column is a single table column with its Hive type.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table is one catalog table definition as read from a schema file.
type Table struct {
	// Name is derived from the file name, not the file contents.
	Name string `json:"-"`

	Columns        []Column `json:"columns"`
	Classification string   `json:"classification"`
	SerDeLibrary   string   `json:"serdeLibrary"`
	InputFormat    string   `json:"inputFormat"`
	OutputFormat   string   `json:"outputFormat"`

	// Location is the key prefix under the data lake bucket where the
	// table's objects live, relative to the bucket root.
	Location string `json:"location"`
}

func (t *Table) applyDefaults() {
	if t.Classification == "" {
		t.Classification = DefaultClassification
	}
	if t.SerDeLibrary == "" {
		t.SerDeLibrary = DefaultSerDeLibrary
	}
	if t.InputFormat == "" {
		t.InputFormat = DefaultInputFormat
	}
	if t.OutputFormat == "" {
		t.OutputFormat = DefaultOutputFormat
	}
	if t.Location == "" {
		t.Location = t.Name + "/"
	}
}

func (t *Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s: no columns defined", t.Name)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for i, col := range t.Columns {
		if col.Name == "" {
			return fmt.Errorf("table %s: column %d has no name", t.Name, i)
		}
		if col.Type == "" {
			return fmt.Errorf("table %s: column %s has no type", t.Name, col.Name)
		}
		if _, ok := seen[col.Name]; ok {
			return fmt.Errorf("table %s: duplicate column %s", t.Name, col.Name)
		}
		seen[col.Name] = struct{}{}
	}
	return nil
}

// Load reads a single schema file. The table name is taken from the
// file's base name.
func Load(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read schema file: %w", err)
	}

	var table Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return Table{}, fmt.Errorf("parse schema file %s: %w", path, err)
	}

	table.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	table.applyDefaults()

	if err := table.validate(); err != nil {
		return Table{}, err
	}
	return table, nil
}

// LoadDir loads every .json file in dir, sorted by table name.
// Non-JSON files are ignored.
func LoadDir(dir string) ([]Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema directory: %w", err)
	}

	var tables []Table
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		table, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("no schema files found in %s", dir)
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}
