package redis

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/resilience"
)

// IndexDocuments stores every item as a hash in a single DoMulti round-trip.
// Items that fail transiently are resent on the next attempt; the rest get a
// per-item verdict. If every item is still failing the call itself fails.
func (s *Store) IndexDocuments(ctx context.Context, index string, items []db.Item) ([]db.ItemStatus, error) {
	if len(items) == 0 {
		return nil, nil
	}

	statuses := make([]db.ItemStatus, len(items))
	pending := make([]int, len(items))
	for i := range items {
		pending[i] = i
	}

	var fatal error
	err := resilience.Retry(ctx, db.OpIndexDocuments, s.retryFor(db.OpIndexDocuments), func() error {
		cmds := make(rueidis.Commands, 0, len(pending))
		for _, i := range pending {
			cmds = append(cmds, s.hset(index, items[i]))
		}

		var retry []int
		var lastErr error
		callErr := resilience.WithTimeout(ctx, s.timeout, db.OpIndexDocuments, func(tctx context.Context) error {
			results := s.client.DoMulti(tctx, cmds...)
			for j, res := range results {
				i := pending[j]
				err := classify(res.Error())
				switch {
				case err == nil:
					statuses[i] = db.ItemStatus{Key: items[i].Key, OK: true, StatusCode: http.StatusOK}
				case errors.Is(err, db.ErrUnauthorized):
					return err
				case ctx.Err() != nil:
					// the caller gave up; item verdicts would be meaningless
					return ctx.Err()
				case errors.Is(err, context.Canceled):
					return err
				case db.IsTransient(err):
					statuses[i] = db.ItemStatus{Key: items[i].Key, StatusCode: http.StatusServiceUnavailable, Message: err.Error()}
					retry = append(retry, i)
					lastErr = err
				default:
					statuses[i] = db.ItemStatus{Key: items[i].Key, StatusCode: http.StatusBadRequest, Message: err.Error()}
				}
			}
			return nil
		})
		if callErr != nil {
			fatal = callErr
			return nil
		}
		pending = retry
		return lastErr
	})
	if fatal != nil {
		return nil, &db.Error{Op: db.OpIndexDocuments, Err: fatal}
	}
	if err != nil && len(pending) == len(items) {
		return nil, &db.Error{Op: db.OpIndexDocuments, Err: err}
	}
	return statuses, nil
}

func (s *Store) hset(index string, it db.Item) rueidis.Completed {
	cmd := s.b().Hset().Key(keyPrefix(index) + it.Key).FieldValue()
	for k, v := range it.Fields {
		cmd = cmd.FieldValue(k, v)
	}
	return cmd.Build()
}
