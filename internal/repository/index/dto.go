package index

import (
	"github.com/kailas-cloud/searchdemo/internal/db"
	domindex "github.com/kailas-cloud/searchdemo/internal/domain/index"
	"github.com/kailas-cloud/searchdemo/internal/domain/index/field"
)

func toDBIndex(def domindex.Definition) *db.IndexDefinition {
	out := &db.IndexDefinition{Name: def.Name(), Fields: make([]db.IndexField, 0, len(def.Fields()))}
	for _, f := range def.Fields() {
		a := f.Attrs()
		out.Fields = append(out.Fields, db.IndexField{
			Name:        f.Name(),
			Type:        toDBType(f.DataType()),
			Key:         a.Key,
			Retrievable: a.Retrievable,
			Searchable:  a.Searchable,
			Filterable:  a.Filterable,
			Facetable:   a.Facetable,
			Sortable:    a.Sortable,
		})
	}
	return out
}

func toDBType(t field.Type) db.IndexFieldType {
	switch t {
	case field.Int32:
		return db.IndexFieldInt32
	case field.Int64:
		return db.IndexFieldInt64
	case field.Double:
		return db.IndexFieldDouble
	case field.Boolean:
		return db.IndexFieldBoolean
	default:
		return db.IndexFieldString
	}
}
