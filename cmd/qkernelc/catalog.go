package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
)

// fileCatalog is a minimal plan.SchemaProvider backed by a JSON document
// of table definitions, standing in for the real catalog/metadata store
// places out of scope. Plans built entirely over inline VALUES
// rows never consult it.
type fileCatalog struct {
	tables map[string]catalogTable
}

type catalogFile struct {
	Tables []catalogTable `json:"tables"`
}

type catalogTable struct {
	DB      string          `json:"db"`
	Name    string          `json:"name"`
	Columns []catalogColumn `json:"columns"`
}

type catalogColumn struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

func loadCatalog(path string) (*fileCatalog, error) {
	if path == "" {
		return &fileCatalog{tables: map[string]catalogTable{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("qkernelc: read schema %q: %w", path, err)
	}
	var cf catalogFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("qkernelc: parse schema %q: %w", path, err)
	}
	c := &fileCatalog{tables: make(map[string]catalogTable, len(cf.Tables))}
	for _, t := range cf.Tables {
		c.tables[catalogKey(t.DB, t.Name)] = t
	}
	return c, nil
}

func catalogKey(db, table string) string { return db + "." + table }

func (c *fileCatalog) TableSchema(dbName, tableName string) (plan.TableInfo, []expression.ColumnInfo, error) {
	t, ok := c.tables[catalogKey(dbName, tableName)]
	if !ok {
		return plan.TableInfo{}, nil, fmt.Errorf("qkernelc: unknown table %q in schema file", catalogKey(dbName, tableName))
	}
	cols := make([]expression.ColumnInfo, len(t.Columns))
	for i, col := range t.Columns {
		typ, err := plan.ParseFieldType(col.Type, col.Nullable)
		if err != nil {
			return plan.TableInfo{}, nil, err
		}
		cols[i] = expression.ColumnInfo{Name: col.Name, Type: typ, ColIndex: i}
	}
	return plan.TableInfo{DBName: t.DB, Name: t.Name}, cols, nil
}
