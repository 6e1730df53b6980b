package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

// DefaultFileName is the corpus resource written by the site build.
const DefaultFileName = "searchindex.json"

// LoadError reports why the corpus could not be loaded. StatusCode is set for
// non-success responses and zero for transport or decoding failures.
type LoadError struct {
	Location   string
	StatusCode int
	Err        error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("loading corpus from %s: status %d: %v", e.Location, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("loading corpus from %s: %v", e.Location, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Options configures a Loader.
type Options struct {
	// Origin, when set, makes the corpus location absolute
	// (e.g. "https://docs.example.com").
	Origin string
	// BasePath is the site base path; empty means "/".
	BasePath string
	// FileName defaults to DefaultFileName.
	FileName string
	// FetchTimeout bounds fetch and decode; zero leaves it to the transport.
	FetchTimeout time.Duration
}

// Loader fetches and decodes the corpus. Concurrent Load calls share one
// fetch.
type Loader struct {
	fetcher  Fetcher
	location string
	timeout  time.Duration
	group    singleflight.Group
	logger   *slog.Logger
}

// NewLoader resolves the corpus location and returns a Loader for it.
func NewLoader(fetcher Fetcher, opts Options) (*Loader, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("%w: corpus fetcher is required", apperrors.ErrInvalidInput)
	}
	fileName := opts.FileName
	if fileName == "" {
		fileName = DefaultFileName
	}
	location, err := ResolveLocation(opts.Origin, opts.BasePath, fileName)
	if err != nil {
		return nil, err
	}
	return &Loader{
		fetcher:  fetcher,
		location: location,
		timeout:  opts.FetchTimeout,
		logger:   slog.Default().With("component", "corpus-loader"),
	}, nil
}

// Location returns the resolved corpus location.
func (l *Loader) Location() string {
	return l.location
}

// Load performs one fetch attempt and returns the valid documents in corpus
// order. Invalid records are skipped and logged. Any failure is a *LoadError.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	val, err, shared := l.group.Do(l.location, func() (interface{}, error) {
		return l.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.logger.Debug("corpus fetch shared with concurrent caller", "location", l.location)
	}
	return val.([]Document), nil
}

func (l *Loader) load(ctx context.Context) ([]Document, error) {
	start := time.Now()
	type decoded struct {
		docs    []Document
		skipped int
	}
	out, err := resilience.WithTimeout(ctx, l.timeout, "corpus fetch", func(ctx context.Context) (decoded, error) {
		body, err := l.fetcher.Fetch(ctx, l.location)
		if err != nil {
			return decoded{}, err
		}
		defer body.Close()
		docs, skipped, err := Decode(body)
		return decoded{docs: docs, skipped: skipped}, err
	})
	if err != nil {
		l.logger.Error("failed to load search index", "location", l.location, "error", err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			if loadErr.Location == "" {
				loadErr.Location = l.location
			}
			return nil, loadErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &LoadError{Location: l.location, Err: fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)}
		}
		return nil, &LoadError{Location: l.location, Err: fmt.Errorf("%w: %v", apperrors.ErrCorpusUnavailable, err)}
	}
	l.logger.Info("corpus loaded",
		"location", l.location,
		"documents", len(out.docs),
		"skipped", out.skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out.docs, nil
}

// Decode parses a corpus payload. The payload must be a JSON array of
// objects; anything else is a malformed-corpus LoadError. Records failing
// Validate are dropped and counted in skipped.
func Decode(r io.Reader) (docs []Document, skipped int, err error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, 0, malformed("reading payload: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, 0, malformed("payload is not a list")
	}
	logger := slog.Default().With("component", "corpus-loader")
	docs = make([]Document, 0, 64)
	for i := 0; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, 0, malformed("element %d: %v", i, err)
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, 0, malformed("element %d is not an object", i)
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, 0, malformed("element %d: %v", i, err)
		}
		if err := Validate(&doc); err != nil {
			logger.Warn("skipping invalid corpus document", "index", i, "error", err)
			skipped++
			continue
		}
		doc.ID = DocID(strings.TrimSpace(string(doc.ID)))
		docs = append(docs, doc)
	}
	if _, err := dec.Token(); err != nil {
		return nil, 0, malformed("unterminated list: %v", err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, 0, malformed("after list: %v", err)
		}
		return nil, 0, malformed("unexpected %v after list", tok)
	}
	return docs, skipped, nil
}

func malformed(format string, args ...any) *LoadError {
	return &LoadError{Err: fmt.Errorf("%w: %s", apperrors.ErrMalformedCorpus, fmt.Sprintf(format, args...))}
}

// ResolveLocation joins basePath and fileName, tolerating a missing or extra
// trailing separator on basePath, and resolves the result against origin when
// origin is non-empty. An empty basePath means "/".
func ResolveLocation(origin, basePath, fileName string) (string, error) {
	if basePath == "" {
		basePath = "/"
	}
	joined, err := url.JoinPath(basePath, fileName)
	if err != nil {
		return "", fmt.Errorf("%w: base path %q: %v", apperrors.ErrInvalidInput, basePath, err)
	}
	if origin == "" {
		return joined, nil
	}
	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("%w: origin %q: %v", apperrors.ErrInvalidInput, origin, err)
	}
	ref, err := url.Parse(joined)
	if err != nil {
		return "", fmt.Errorf("%w: corpus path %q: %v", apperrors.ErrInvalidInput, joined, err)
	}
	return base.ResolveReference(ref).String(), nil
}
