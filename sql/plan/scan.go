package plan

import (
	"fmt"
	"strings"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// TableInfo is the schema-provider-supplied identity of a base table; the
// catalog that resolves table names to TableInfo is an external
// collaborator.
type TableInfo struct {
	Name   string
	DBName string
}

// Scan is a leaf RA node reading a base table.
type Scan struct {
	base
	Table   TableInfo
	Columns []expression.ColumnInfo
}

func NewScan(id int, table TableInfo, columns []expression.ColumnInfo) *Scan {
	return &Scan{base: base{id: id}, Table: table, Columns: columns}
}

func (s *Scan) Schema() Schema {
	schema := make(Schema, len(s.Columns))
	for i, c := range s.Columns {
		schema[i] = Field{Name: c.Name, Type: c.Type}
	}
	return schema
}

func (s *Scan) OutputType(col int) types.Type { return outputType(s, col) }

func (s *Scan) WithChildren(children ...Node) (Node, error) {
	if len(children) != 0 {
		return nil, errArity("Scan", 0, len(children))
	}
	return s, nil
}

func (s *Scan) String() string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return fmt.Sprintf("Scan(%s.%s, [%s])", s.Table.DBName, s.Table.Name, strings.Join(names, ", "))
}
