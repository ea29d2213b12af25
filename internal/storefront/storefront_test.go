package storefront

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"

	"storefront-admin/internal/common/logger"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeES answers Elasticsearch requests in-process.
type fakeES struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(req recordedRequest) (int, string)
}

func (f *fakeES) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(b)
	}
	rec := recordedRequest{Method: req.Method, Path: req.URL.Path, Query: req.URL.RawQuery, Body: body}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	status, payload := http.StatusOK, `{}`
	if f.respond != nil {
		status, payload = f.respond(rec)
	}
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
		Body:    io.NopCloser(strings.NewReader(payload)),
		Request: req,
	}, nil
}

func (f *fakeES) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestRepository(t *testing.T, es *fakeES) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	if es == nil {
		es = &fakeES{respond: func(req recordedRequest) (int, string) {
			t.Errorf("unexpected elasticsearch request %s %s", req.Method, req.Path)
			return http.StatusInternalServerError, `{}`
		}}
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: es,
	})
	require.NoError(t, err)

	return NewRepository(db, client, logger.NewTestLogger(t)), mock
}

// actionData decodes JSON into the map shape job variables arrive in.
func actionData(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}
