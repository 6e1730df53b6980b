package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/errors"
)

// Fetcher retrieves the raw corpus resource at location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

// HTTPFetcher fetches the corpus over HTTP. Under js/wasm the standard
// transport delegates to the browser's fetch API.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch issues a single GET. Any non-2xx response is a LoadError carrying the
// status code.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &LoadError{Location: location, Err: fmt.Errorf("%w: building request: %v", apperrors.ErrCorpusUnavailable, err)}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Location: location, Err: fmt.Errorf("%w: %v", apperrors.ErrCorpusUnavailable, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &LoadError{
			Location:   location,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: search index not found: %s", apperrors.ErrCorpusUnavailable, resp.Status),
		}
	}
	return resp.Body, nil
}

// FSFetcher reads the corpus from a file system laid out like the published
// site, e.g. os.DirFS("public"). Only the path component of location is used.
type FSFetcher struct {
	FS fs.FS
}

// Fetch opens the file named by the location's path.
func (f *FSFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Location: location, Err: fmt.Errorf("%w: %v", apperrors.ErrCorpusUnavailable, err)}
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, &LoadError{Location: location, Err: fmt.Errorf("%w: %v", apperrors.ErrCorpusUnavailable, err)}
	}
	name := strings.TrimPrefix(u.Path, "/")
	if !fs.ValidPath(name) || name == "." {
		return nil, &LoadError{Location: location, Err: fmt.Errorf("%w: invalid corpus path %q", apperrors.ErrCorpusUnavailable, u.Path)}
	}
	file, err := f.FS.Open(name)
	if err != nil {
		status := 0
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		return nil, &LoadError{Location: location, StatusCode: status, Err: fmt.Errorf("%w: %v", apperrors.ErrCorpusUnavailable, err)}
	}
	return file, nil
}
