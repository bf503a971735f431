package orders

import (
	"context"
	"fmt"
)

// Requester is the single external capability this package consumes: one
// logical GET returning the raw JSON body, raising typed errors on
// transport failure or non-2xx status.
type Requester interface {
	Request(ctx context.Context, endpoint string, params map[string]string) ([]byte, error)
}

// Result is the outcome of a bounded multi-page fetch. Backend order is
// preserved; no client-side re-sorting happens.
type Result[T any] struct {
	Records      []T
	TotalRecords int
	TotalPages   int
	PagesFetched int
	StartPage    int
}

// boundedQuery drives one bounded fetch: sequential pages starting at
// startPage (1-based), at most maxPages of them.
type boundedQuery struct {
	endpoint      string
	startPage     int
	size          int
	maxPages      int
	filterQuality bool
	params        func(page int) map[string]string
}

// fetchBounded accumulates records across sequential pages, stopping on
// an exhausted page budget, an empty collection, or a raw page shorter
// than the requested size. The short-page check deliberately uses the
// pre-filter length: a page thinned out by quality filtering is not the
// end of the data.
//
// A transport error on the first page fails the fetch; on any later page
// it is treated as end-of-data and the accumulated records are returned.
// Metadata comes from the first page only and is assumed stable for the
// short window of one fetch.
func fetchBounded[T Record](ctx context.Context, rq Requester, q boundedQuery) (Result[T], error) {
	result := Result[T]{StartPage: q.startPage}

	for offset := 0; offset < q.maxPages; offset++ {
		page := q.startPage + offset

		body, err := rq.Request(ctx, q.endpoint, q.params(page))
		if err != nil {
			if offset == 0 {
				return Result[T]{}, fmt.Errorf("fetch page %d: %w", page, err)
			}
			break
		}

		env, err := decodeEnvelope[T](body)
		if err != nil {
			if offset == 0 {
				return Result[T]{}, fmt.Errorf("decode page %d: %w", page, err)
			}
			break
		}

		if offset == 0 {
			result.TotalRecords = env.Records
			result.TotalPages = env.Pages
		}

		rawCount := len(env.Collection)
		if rawCount == 0 {
			break
		}

		records := env.Collection
		if q.filterQuality {
			records = FilterQuality(records)
		}
		result.Records = append(result.Records, records...)
		result.PagesFetched++

		if rawCount < q.size {
			break
		}
	}

	return result, nil
}
