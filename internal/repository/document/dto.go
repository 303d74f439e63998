package document

import (
	"github.com/kailas-cloud/searchdemo/internal/db"
	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
	domindex "github.com/kailas-cloud/searchdemo/internal/domain/index"
)

// toItem flattens a domain Document into the schema's field map.
func toItem(doc *domdoc.Document) db.Item {
	return db.Item{
		Key: doc.ID(),
		Fields: map[string]string{
			domindex.FieldID:       doc.ID(),
			domindex.FieldTitle:    doc.Title(),
			domindex.FieldContent:  doc.Content(),
			domindex.FieldCategory: doc.Category(),
		},
	}
}
