package sql

import "strings"

// Column is the definition of a column in the output of a node.
type Column struct {
	// Name is the name of the column.
	Name string
	// Type is the data type of the column.
	Type Type
	// Nullable is true if the column can contain NULL values.
	Nullable bool
	// Source is the name of the dataset this column came from, or its alias.
	Source string
}

// Schema is the definition of a node output. Its first column is always the
// row name column.
type Schema []*Column

// RowNameSchema returns a schema containing only the row name column for the
// given source.
func RowNameSchema(source string) Schema {
	return Schema{{Name: RowNameColumn, Type: Text, Source: source}}
}

// Contains returns whether the schema contains a column with the given name.
func (s Schema) Contains(column string, source string) bool {
	return s.IndexOf(column, source) >= 0
}

// IndexOf returns the index of the given column in the schema or -1 if it's
// not present. An empty source matches any source.
func (s Schema) IndexOf(column, source string) int {
	for i, col := range s {
		if col.Name == column && (source == "" || strings.EqualFold(col.Source, source)) {
			return i
		}
	}
	return -1
}

// Names returns the column names of the schema, row name column included.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}

// Equals checks whether the given schema is equal to this one.
func (s Schema) Equals(s2 Schema) bool {
	if len(s) != len(s2) {
		return false
	}

	for i := range s {
		if s[i].Name != s2[i].Name || s[i].Source != s2[i].Source || s[i].Type != s2[i].Type {
			return false
		}
	}

	return true
}
