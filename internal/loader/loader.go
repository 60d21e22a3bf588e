// Package loader implements source.Loader over local files and HTTP. HTTP stays disabled unless a client or the fallback is configured.
package loader

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gravio-la/forms-designer-sub000/pkg/source"
)

// Loader delegates to file or HTTP strategies.
type Loader struct {
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ source.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options source.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// NewWithOptions is New over functional options.
func NewWithOptions(opts ...source.LoaderOption) *Loader {
	return New(source.NewLoaderOptions(opts...))
}

// Load fetches a document from src.
func (l *Loader) Load(ctx context.Context, src source.Source) (source.Document, error) {
	if src == nil {
		return source.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case source.KindFile:
		data, err = loadFile(ctx, src.Location())
	case source.KindURL:
		if !l.allowHTTP {
			return source.Document{}, ErrHTTPDisabled
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("loader: unsupported source kind")
	}
	if err != nil {
		return source.Document{}, err
	}

	return source.NewDocument(src, data)
}

// ErrHTTPDisabled reports a URL source on a loader without HTTP support.
var ErrHTTPDisabled = errors.New("loader: http support disabled")
