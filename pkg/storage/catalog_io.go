// pkg/storage/catalog_io.go
package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"minisql/pkg/schema"
	"minisql/pkg/types"
)

func lowerKey(s string) string { return strings.ToLower(s) }

type columnJSON struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	PrimaryKey bool        `json:"primary_key"`
	Unique     bool        `json:"unique"`
	NotNull    bool        `json:"not_null"`
	Default    interface{} `json:"default,omitempty"`
}

type tableSchemaJSON struct {
	Name          string       `json:"name"`
	Columns       []columnJSON `json:"columns"`
	PrimaryKey    string       `json:"primary_key,omitempty"`
	UniqueColumns []string     `json:"unique_columns,omitempty"`
}

type catalogJSON struct {
	Tables map[string]tableSchemaJSON `json:"tables"`
}

func schemaToJSON(s *schema.TableSchema) (tableSchemaJSON, error) {
	out := tableSchemaJSON{Name: s.Name, PrimaryKey: s.PrimaryKey}
	for _, col := range s.Columns {
		cj := columnJSON{
			Name:       col.Name,
			Type:       col.Type.String(),
			PrimaryKey: col.PrimaryKey,
			Unique:     col.Unique,
			NotNull:    col.NotNull,
		}
		if col.Default != nil {
			raw, err := types.MarshalForColumn(*col.Default)
			if err != nil {
				return out, fmt.Errorf("encoding default for column %q: %w", col.Name, err)
			}
			cj.Default = raw
		}
		out.Columns = append(out.Columns, cj)
	}
	for name := range s.UniqueColumns {
		out.UniqueColumns = append(out.UniqueColumns, name)
	}
	return out, nil
}

func schemaFromJSON(in tableSchemaJSON) (*schema.TableSchema, error) {
	s := schema.NewTableSchema(in.Name)
	for _, cj := range in.Columns {
		ct, err := types.ParseType(cj.Type)
		if err != nil {
			return nil, fmt.Errorf("table %q column %q: %w", in.Name, cj.Name, err)
		}
		col := schema.Column{
			Name:       cj.Name,
			Type:       ct,
			PrimaryKey: cj.PrimaryKey,
			Unique:     cj.Unique,
			NotNull:    cj.NotNull,
		}
		if cj.Default != nil {
			v, err := types.UnmarshalForColumn(cj.Default, ct)
			if err != nil {
				return nil, fmt.Errorf("table %q column %q default: %w", in.Name, cj.Name, err)
			}
			col.Default = &v
		}
		if err := s.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func marshalCatalog(c *schema.Catalog) ([]byte, error) {
	out := catalogJSON{Tables: make(map[string]tableSchemaJSON)}
	for _, name := range c.ListTables() {
		s := c.Table(name)
		sj, err := schemaToJSON(s)
		if err != nil {
			return nil, err
		}
		out.Tables[lowerKey(name)] = sj
	}
	return json.MarshalIndent(out, "", "  ")
}

func unmarshalCatalog(data []byte) (*schema.Catalog, error) {
	var in catalogJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	cat := schema.NewCatalog()
	for _, sj := range in.Tables {
		s, err := schemaFromJSON(sj)
		if err != nil {
			return nil, err
		}
		if err := cat.CreateTable(s); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
