package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/blechwerk/oseon-mcp/testing"
)

// stubRequester replays canned responses in call order and records the
// parameters of every call.
type stubRequester struct {
	responses []stubResponse
	calls     []map[string]string
	endpoints []string
}

type stubResponse struct {
	body []byte
	err  error
}

func (s *stubRequester) Request(_ context.Context, endpoint string, params map[string]string) ([]byte, error) {
	s.endpoints = append(s.endpoints, endpoint)
	s.calls = append(s.calls, params)
	if len(s.responses) == 0 {
		return nil, errors.New("stub exhausted")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next.body, next.err
}

func envelopeBody(t *testing.T, totalRecords, totalPages int, orderNos ...string) []byte {
	t.Helper()
	collection := make([]CustomerOrder, len(orderNos))
	for i, no := range orderNos {
		collection[i] = CustomerOrder{CustomerOrderNo: no, CustomerName: "Blechbau Nord GmbH"}
	}
	body, err := json.Marshal(map[string]any{
		"collection": collection,
		"records":    totalRecords,
		"pages":      totalPages,
	})
	require.NoError(t, err)
	return body
}

func orderNos(n int, prefix string) []string {
	nos := make([]string, n)
	for i := range nos {
		nos[i] = fmt.Sprintf("%s-%03d", prefix, i)
	}
	return nos
}

func pagedQuery(size, startPage, maxPages int, filterQuality bool) boundedQuery {
	return boundedQuery{
		endpoint:      "/api/v2/sales/customerOrders",
		startPage:     startPage,
		size:          size,
		maxPages:      maxPages,
		filterQuality: filterQuality,
		params: func(page int) map[string]string {
			return BuildParams(Spec{Size: size, Page: page, Legacy: true}, qualityNow())
		},
	}
}

func TestFetchBoundedStopsOnShortPage(t *testing.T) {
	rq := &stubRequester{responses: []stubResponse{
		{body: envelopeBody(t, 35, 4, orderNos(10, "P1")...)},
		{body: envelopeBody(t, 35, 4, orderNos(10, "P2")...)},
		{body: envelopeBody(t, 35, 4, orderNos(10, "P3")...)},
		{body: envelopeBody(t, 35, 4, orderNos(5, "P4")...)},
	}}

	res, err := fetchBounded[CustomerOrder](context.Background(), rq, pagedQuery(10, 1, 5, false))
	require.NoError(t, err)

	assert.Len(t, res.Records, 35)
	assert.Equal(t, 4, res.PagesFetched, "the short fourth page ends the fetch before the budget")
	assert.Equal(t, 35, res.TotalRecords)
	assert.Equal(t, 4, res.TotalPages)
	assert.Equal(t, 1, res.StartPage)
	assert.Len(t, rq.calls, 4)

	// Pages advance sequentially in the backend's zero-based convention.
	for i, call := range rq.calls {
		assert.Equal(t, fmt.Sprintf("%d", i), call["page"])
	}
}

func TestFetchBoundedShortPageUsesRawLength(t *testing.T) {
	// Page 1 holds 10 raw records but only 9 survive the quality filter.
	// The raw length equals the requested size, so fetching continues.
	page1 := append(orderNos(9, "REAL"), "TEST-001")
	rq := &stubRequester{responses: []stubResponse{
		{body: envelopeBody(t, 13, 2, page1...)},
		{body: envelopeBody(t, 13, 2, orderNos(3, "P2")...)},
	}}

	res, err := fetchBounded[CustomerOrder](context.Background(), rq, pagedQuery(10, 1, 4, true))
	require.NoError(t, err)

	assert.Equal(t, 2, res.PagesFetched)
	assert.Len(t, res.Records, 12, "filtered counts never trigger the short-page stop")
}

func TestFetchBoundedFirstPageErrorFails(t *testing.T) {
	rq := &stubRequester{responses: []stubResponse{
		{err: errors.New("connection refused")},
	}}

	_, err := fetchBounded[CustomerOrder](context.Background(), rq, pagedQuery(10, 1, 4, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch page 1")
}

func TestFetchBoundedLaterPageErrorEndsData(t *testing.T) {
	rq := &stubRequester{responses: []stubResponse{
		{body: envelopeBody(t, 30, 3, orderNos(10, "P1")...)},
		{err: errors.New("connection reset")},
	}}

	res, err := fetchBounded[CustomerOrder](context.Background(), rq, pagedQuery(10, 1, 4, false))
	require.NoError(t, err, "a later-page failure returns what was accumulated")
	assert.Equal(t, 1, res.PagesFetched)
	assert.Len(t, res.Records, 10)
}

func TestFetchBoundedFirstPageDecodeErrorFails(t *testing.T) {
	rq := &stubRequester{responses: []stubResponse{
		{body: []byte("<html>gateway error</html>")},
	}}

	_, err := fetchBounded[CustomerOrder](context.Background(), rq, pagedQuery(10, 1, 4, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode page 1")
}

func TestFetchBoundedEmptyFirstPage(t *testing.T) {
	rq := &stubRequester{responses: []stubResponse{
		{body: envelopeBody(t, 0, 0)},
	}}

	res, err := fetchBounded[CustomerOrder](context.Background(), rq, pagedQuery(10, 1, 4, false))
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.PagesFetched)
}

func TestFetchBoundedSinglePageBudget(t *testing.T) {
	rq := &stubRequester{responses: []stubResponse{
		{body: envelopeBody(t, 100, 10, orderNos(10, "P1")...)},
	}}

	res, err := fetchBounded[CustomerOrder](context.Background(), rq, pagedQuery(10, 3, 1, false))
	require.NoError(t, err)
	assert.Equal(t, 1, res.PagesFetched)
	assert.Equal(t, 3, res.StartPage)
	require.Len(t, rq.calls, 1)
	assert.Equal(t, "2", rq.calls[0]["page"], "start page 3 maps to backend page 2")
}
