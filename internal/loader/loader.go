package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/radifan-bfi/jsonforms/pkg/schema"
)

// Loader implements schema.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	maxBytes  int64
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from a resolved configuration.
func New(cfg schema.LoaderConfig) *Loader {
	client := cfg.Remote.HTTPClient()
	return &Loader{
		fs:        cfg.Files,
		http:      client,
		allowHTTP: client != nil,
		timeout:   cfg.Remote.Timeout,
		maxBytes:  cfg.Limit(),
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location(), l.maxBytes)
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location(), l.maxBytes)
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout, l.maxBytes)
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: %s: %w", src.Location(), err)
	}

	return schema.NewDocument(src, data)
}

func checkSize(size, limit int64) error {
	if size > limit {
		return fmt.Errorf("document too large (%d bytes, limit %d)", size, limit)
	}
	return nil
}
