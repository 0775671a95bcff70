// Package loader fetches the raw store directory CSV from its configured
// location.
//
// A location is a local path (or file:// URL), an http(s):// URL, an
// s3://bucket/key object, or a postgres:// database holding snapshots. A
// location whose path ends in .lz4 is decompressed on the fly. Every payload
// has its UTF-8 BOM stripped, invalid UTF-8 replaced, and its decoded size
// capped.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/StoreDirectory/internal/config"
	"github.com/pierrec/lz4/v4"
)

// Source opens the raw (possibly compressed) byte stream of a dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// Loader reads a Source into text. It satisfies core.Fetcher.
type Loader struct {
	src        Source
	compressed bool
	maxBytes   int64
	timeout    time.Duration
}

// New picks a Source for cfg.Source by its scheme.
func New(cfg config.DatasetConfig) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, locPath, err := sourceFor(cfg)
	if err != nil {
		return nil, err
	}

	return &Loader{
		src:        src,
		compressed: strings.HasSuffix(strings.ToLower(locPath), ".lz4"),
		maxBytes:   cfg.MaxBytes,
		timeout:    cfg.FetchTimeout,
	}, nil
}

// NewWithSource builds a Loader around an explicit Source.
func NewWithSource(src Source, compressed bool, maxBytes int64, timeout time.Duration) *Loader {
	return &Loader{src: src, compressed: compressed, maxBytes: maxBytes, timeout: timeout}
}

func sourceFor(cfg config.DatasetConfig) (Source, string, error) {
	loc := strings.TrimSpace(cfg.Source)

	u, err := url.Parse(loc)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path; a one-letter scheme is a Windows drive.
		return &FileSource{Path: loc}, loc, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return &FileSource{Path: u.Path}, u.Path, nil
	case "http", "https":
		return &HTTPSource{URL: loc}, u.Path, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, "", fmt.Errorf("s3 location %q needs a bucket and a key", loc)
		}
		return &S3Source{Bucket: u.Host, Key: key}, key, nil
	case "postgres", "postgresql":
		return &PostgresSource{URL: loc, Table: cfg.SnapshotTable}, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported dataset scheme %q", u.Scheme)
	}
}

// Fetch performs one read of the dataset, bounded by the fetch timeout.
func (l *Loader) Fetch(ctx context.Context) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	rc, err := l.src.Open(ctx)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	text, err := ReadText(rc, l.compressed, l.maxBytes)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", l, err)
	}

	slog.Debug("dataset fetched", "source", l.String(), "bytes", len(text), "lz4", l.compressed)
	return text, nil
}

// String describes the source with credentials masked.
func (l *Loader) String() string {
	return config.MaskSource(l.src.String())
}

// Close releases resources held by the source, if any.
func (l *Loader) Close() error {
	if c, ok := l.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ErrTooLarge is returned when the decoded dataset exceeds the size limit.
var ErrTooLarge = errors.New("file too large")

// ReadText decodes r into a string: lz4 decompression when compressed is
// set, then BOM removal and UTF-8 sanitizing. More than maxBytes of decoded
// text is an error; maxBytes <= 0 disables the limit.
func ReadText(r io.Reader, compressed bool, maxBytes int64) (string, error) {
	if compressed {
		r = lz4.NewReader(r)
	}

	cr := wrapText(r)

	var src io.Reader = cr
	if maxBytes > 0 {
		src = io.LimitReader(cr, maxBytes+1)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, src); err != nil {
		return "", fmt.Errorf("decode dataset: %w", err)
	}

	if maxBytes > 0 && cr.n > maxBytes {
		return "", fmt.Errorf("%w (limit %d bytes)", ErrTooLarge, maxBytes)
	}
	return b.String(), nil
}
