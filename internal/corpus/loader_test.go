package corpus

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/errors"
)

const installCorpus = `[{"id":1,"title":"Install Guide","content":"How to install the tool","tags":"setup","date":"2024-01-01","summary":"Installation steps","permalink":"/install/"}]`

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		origin, base, want string
	}{
		{"", "", "/searchindex.json"},
		{"", "/", "/searchindex.json"},
		{"", "/docs", "/docs/searchindex.json"},
		{"", "/docs/", "/docs/searchindex.json"},
		{"https://example.com", "/docs/", "https://example.com/docs/searchindex.json"},
		{"https://example.com/ignored/", "/", "https://example.com/searchindex.json"},
		{"https://example.com", "https://cdn.example.com/site", "https://cdn.example.com/site/searchindex.json"},
	}
	for _, tt := range tests {
		got, err := ResolveLocation(tt.origin, tt.base, DefaultFileName)
		if err != nil {
			t.Errorf("ResolveLocation(%q, %q): %v", tt.origin, tt.base, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveLocation(%q, %q) = %q, want %q", tt.origin, tt.base, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	payload := `[
		{"id": 1, "title": "Install Guide", "tags": ["setup", "cli"], "content": "x"},
		{"id": "two", "title": "Second", "tags": "a b", "summary": "<p>s</p>", "permalink": "/two/"},
		{"title": "no id"},
		{"id": 3, "tags": null},
		{"id": 4, "tags": "go,wasm; search"},
		{"id": 5, "tags": ["hugo, docs", "cli"]}
	]`
	docs, skipped, err := Decode(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped record, got %d", skipped)
	}
	if len(docs) != 5 {
		t.Fatalf("expected 5 documents, got %d", len(docs))
	}
	if docs[0].ID != "1" || docs[0].Tags != "setup cli" {
		t.Errorf("unexpected first doc: %+v", docs[0])
	}
	if docs[1].ID != "two" || docs[1].Tags != "a b" || docs[1].Permalink != "/two/" {
		t.Errorf("unexpected second doc: %+v", docs[1])
	}
	if docs[2].ID != "3" || docs[2].Tags != "" {
		t.Errorf("unexpected third doc: %+v", docs[2])
	}
	if docs[3].Tags != "go wasm search" {
		t.Errorf("delimited tags = %q, want %q", docs[3].Tags, "go wasm search")
	}
	if docs[4].Tags != "hugo docs cli" {
		t.Errorf("list tags = %q, want %q", docs[4].Tags, "hugo docs cli")
	}
}

func TestDecodeMalformed(t *testing.T) {
	payloads := map[string]string{
		"object":       `{"id": 1}`,
		"string":       `"nope"`,
		"empty":        ``,
		"non-object":   `[1, 2]`,
		"bad id":       `[{"id": true}]`,
		"bad tags":     `[{"id": 1, "tags": 5}]`,
		"unterminated": `[{"id": 1}`,
		"trailing":     `[{"id": "1"}] garbage`,
		"second list":  `[] []`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(strings.NewReader(payload))
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected *LoadError, got %v", err)
			}
			if !errors.Is(err, apperrors.ErrMalformedCorpus) {
				t.Errorf("expected ErrMalformedCorpus, got %v", err)
			}
		})
	}
}

func TestLoaderHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/searchindex.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, installCorpus)
	}))
	defer srv.Close()

	loader, err := NewLoader(&HTTPFetcher{Client: srv.Client()}, Options{Origin: srv.URL, BasePath: "/docs"})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	docs, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Install Guide" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
}

func TestLoaderHTTPStatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	loader, err := NewLoader(&HTTPFetcher{Client: srv.Client()}, Options{Origin: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = loader.Load(context.Background())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", loadErr.StatusCode)
	}
	if !errors.Is(err, apperrors.ErrCorpusUnavailable) {
		t.Errorf("expected ErrCorpusUnavailable, got %v", err)
	}
}

func TestLoaderTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	loader, err := NewLoader(&HTTPFetcher{}, Options{Origin: url})
	if err != nil {
		t.Fatal(err)
	}
	_, err = loader.Load(context.Background())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.StatusCode != 0 {
		t.Fatalf("expected transport LoadError, got %v", err)
	}
}

func TestLoaderFS(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/searchindex.json": {Data: []byte(installCorpus)},
	}
	loader, err := NewLoader(&FSFetcher{FS: fsys}, Options{BasePath: "/docs/"})
	if err != nil {
		t.Fatal(err)
	}
	docs, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "1" {
		t.Fatalf("unexpected docs: %+v", docs)
	}

	missing, err := NewLoader(&FSFetcher{FS: fsys}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = missing.Load(context.Background())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not-found LoadError, got %v", err)
	}
}

type blockingFetcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (f *blockingFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	f.calls.Add(1)
	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return io.NopCloser(strings.NewReader(installCorpus)), nil
}

func TestLoaderTimeout(t *testing.T) {
	fetcher := &blockingFetcher{release: make(chan struct{})}
	defer close(fetcher.release)
	loader, err := NewLoader(fetcher, Options{FetchTimeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	_, err = loader.Load(context.Background())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

type countingFetcher struct {
	calls atomic.Int32
	gate  chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	f.calls.Add(1)
	<-f.gate
	return io.NopCloser(strings.NewReader(installCorpus)), nil
}

func TestLoaderCoalescesConcurrentLoads(t *testing.T) {
	fetcher := &countingFetcher{gate: make(chan struct{})}
	loader, err := NewLoader(fetcher, Options{})
	if err != nil {
		t.Fatal(err)
	}
	const callers = 5
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			if _, err := loader.Load(context.Background()); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()
	if n := fetcher.calls.Load(); n < 1 || n > callers {
		t.Fatalf("unexpected fetch count %d", n)
	}
}

func TestNewLoaderRequiresFetcher(t *testing.T) {
	if _, err := NewLoader(nil, Options{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(&Document{ID: "a"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := Validate(&Document{ID: "  "})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Fields["id"] == "" {
		t.Fatalf("expected id validation error, got %v", err)
	}
	if err := Validate(&Document{ID: DocID(strings.Repeat("x", 300))}); err != nil {
		t.Errorf("long ids must be accepted: %v", err)
	}
}
