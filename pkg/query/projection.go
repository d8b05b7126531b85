// Package query builds parameterized PostgreSQL statements from a projection
// of view field names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view field names (as exposed over the API) to
// alias-qualified columns of a single table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	ordered []string
}

// NewProjectionMap starts a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to the view field name. Projection order is the
// SELECT order, so scanners must read columns in the same sequence.
func (p *ProjectionMap) Project(column, view string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[view] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// From returns the FROM target: "schema.table alias".
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a view field to its qualified column.
// Unknown fields resolve to the empty string.
func (p *ProjectionMap) Column(view string) string {
	return p.columns[view]
}

// Has reports whether view is a projected field.
func (p *ProjectionMap) Has(view string) bool {
	_, ok := p.columns[view]
	return ok
}

// Columns returns the SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}
