package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avaldsgard/divvy/internal/app"
	"github.com/avaldsgard/divvy/internal/clients/yahoo"
	divvycommon "github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/server"
	"github.com/avaldsgard/divvy/internal/services/holdings"
	storage "github.com/avaldsgard/divvy/internal/storage/surrealdb"
)

// QuoteStub is a configurable fake of the quote provider endpoint. Tests
// register per-ticker JSON fragments; unknown tickers get an empty result.
type QuoteStub struct {
	mu     sync.Mutex
	quotes map[string]string
	server *httptest.Server
}

// NewQuoteStub starts the stub provider.
func NewQuoteStub(t *testing.T) *QuoteStub {
	t.Helper()
	qs := &QuoteStub{quotes: make(map[string]string)}
	qs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ticker := r.URL.Query().Get("symbols")
		qs.mu.Lock()
		fragment, ok := qs.quotes[ticker]
		qs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			fmt.Fprint(w, `{"quoteResponse": {"result": [], "error": null}}`)
			return
		}
		fmt.Fprintf(w, `{"quoteResponse": {"result": [%s], "error": null}}`, fragment)
	}))
	t.Cleanup(qs.server.Close)
	return qs
}

// Set registers the JSON quote object served for a ticker.
func (q *QuoteStub) Set(ticker, fragment string) {
	q.mu.Lock()
	q.quotes[ticker] = fragment
	q.mu.Unlock()
}

// Env is a fully wired application behind an httptest server, backed by the
// shared SurrealDB container and the stub quote provider.
type Env struct {
	Server *httptest.Server
	App    *app.App
	Quotes *QuoteStub
}

// NewEnv builds an isolated environment for one API test.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	sc := StartSurrealDB(t)
	quotes := NewQuoteStub(t)

	config := divvycommon.NewDefaultConfig()
	config.Storage.Address = sc.Address()
	config.Storage.Namespace = "divvy_test"
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	config.Storage.Database = fmt.Sprintf("api_%s_%d", sanitized, time.Now().UnixNano()%100000)
	config.Sync.RequestInterval = "1ms"
	config.Clients.Yahoo.BaseURL = quotes.server.URL

	logger := divvycommon.NewSilentLogger()

	manager, err := storage.NewManager(logger, config)
	if err != nil {
		t.Fatalf("storage manager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	quoteClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(100),
	)

	classifier, err := holdings.NewClassifier(config.Valuation.Thresholds)
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}

	holdingService := holdings.NewService(
		manager.HoldingStore(),
		quoteClient,
		classifier,
		holdings.ServiceConfig{
			DiscountPct:     config.Valuation.DiscountPct,
			RequestInterval: config.Sync.GetRequestInterval(),
		},
		logger,
	)

	a := &app.App{
		Config:         config,
		Logger:         logger,
		Storage:        manager,
		QuoteClient:    quoteClient,
		HoldingService: holdingService,
		StartupTime:    time.Now(),
	}

	srv := httptest.NewServer(server.NewServer(a).Handler())
	t.Cleanup(srv.Close)

	return &Env{Server: srv, App: a, Quotes: quotes}
}

// HTTPGet issues a GET against the environment server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.Server.URL + path)
}

// HTTPPost issues a POST with a JSON body.
func (e *Env) HTTPPost(path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return http.Post(e.Server.URL+path, "application/json", bytes.NewReader(data))
}

// HTTPPut issues a PUT with a JSON body.
func (e *Env) HTTPPut(path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPut, e.Server.URL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return http.DefaultClient.Do(req)
}

// HTTPDelete issues a DELETE.
func (e *Env) HTTPDelete(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, e.Server.URL+path, nil)
	if err != nil {
		return nil, err
	}
	return http.DefaultClient.Do(req)
}
