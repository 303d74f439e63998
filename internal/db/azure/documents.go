package azure

import (
	"context"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/kailas-cloud/searchdemo/internal/db"
)

const actionMergeOrUpload = "mergeOrUpload"

type indexBatch struct {
	Value []map[string]any `json:"value"`
}

type indexBatchResult struct {
	Value []struct {
		Key          string  `json:"key"`
		Status       bool    `json:"status"`
		ErrorMessage *string `json:"errorMessage"`
		StatusCode   int     `json:"statusCode"`
	} `json:"value"`
}

// IndexDocuments uploads items with merge-or-upload semantics in one call.
// A 207 response carries per-item failures; it is not an error.
func (s *Store) IndexDocuments(ctx context.Context, index string, items []db.Item) ([]db.ItemStatus, error) {
	if len(items) == 0 {
		return nil, nil
	}

	batch := indexBatch{Value: make([]map[string]any, 0, len(items))}
	for _, it := range items {
		doc := make(map[string]any, len(it.Fields)+1)
		for k, v := range it.Fields {
			doc[k] = v
		}
		doc["@search.action"] = actionMergeOrUpload
		batch.Value = append(batch.Value, doc)
	}

	req, err := s.newRequest(ctx, http.MethodPost, batch, "indexes", index, "docs", "index")
	if err != nil {
		return nil, &db.Error{Op: db.OpIndexDocuments, Err: err}
	}
	resp, err := s.pl.Do(req)
	if err != nil {
		return nil, &db.Error{Op: db.OpIndexDocuments, Err: err}
	}
	defer resp.Body.Close()

	if !runtime.HasStatusCode(resp, http.StatusOK, http.StatusMultiStatus) {
		return nil, responseError(db.OpIndexDocuments, resp)
	}

	var out indexBatchResult
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, &db.Error{Op: db.OpIndexDocuments, Err: err}
	}

	byKey := make(map[string]db.ItemStatus, len(out.Value))
	for _, v := range out.Value {
		st := db.ItemStatus{Key: v.Key, OK: v.Status, StatusCode: v.StatusCode}
		if v.ErrorMessage != nil {
			st.Message = *v.ErrorMessage
		}
		byKey[v.Key] = st
	}

	statuses := make([]db.ItemStatus, 0, len(items))
	for _, it := range items {
		st, ok := byKey[it.Key]
		if !ok {
			st = db.ItemStatus{Key: it.Key, Message: "no status returned for item"}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
