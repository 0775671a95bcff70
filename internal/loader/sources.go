package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FileSource reads a local file.
type FileSource struct {
	Path string
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

func (s *FileSource) String() string { return s.Path }

// HTTPSource issues a single GET. Any non-2xx response is a failure.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, */*")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", s.URL, resp.Status)
	}
	return resp.Body, nil
}

func (s *HTTPSource) String() string { return s.URL }

// S3Source downloads one object with the default AWS credential chain.
type S3Source struct {
	Bucket string
	Key    string

	once       sync.Once
	downloader *s3manager.Downloader
	initErr    error
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	s.once.Do(func() {
		sess, err := session.NewSession()
		if err != nil {
			s.initErr = fmt.Errorf("aws session: %w", err)
			return
		}
		s.downloader = s3manager.NewDownloader(sess)
	})
	if s.initErr != nil {
		return nil, s.initErr
	}

	buf := aws.NewWriteAtBuffer(nil)
	_, err := s.downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", s, err)
	}
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

func (s *S3Source) String() string { return "s3://" + s.Bucket + "/" + s.Key }

// PostgresSource reads the newest CSV body from a snapshot table:
//
//	CREATE TABLE store_directory_snapshots (
//	    body       text        NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//
// The query runs in a read-only transaction.
type PostgresSource struct {
	URL   string
	Table string

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func (s *PostgresSource) connect(ctx context.Context) (*pgxpool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		return s.pool, nil
	}

	poolConfig, err := pgxpool.ParseConfig(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	s.pool = pool
	return pool, nil
}

func (s *PostgresSource) Open(ctx context.Context) (io.ReadCloser, error) {
	pool, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback(ctx)

	var body string
	if err := tx.QueryRow(ctx, snapshotQuery(s.Table)).Scan(&body); err != nil {
		return nil, fmt.Errorf("query snapshot from %s: %w", s.Table, err)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// snapshotQuery quotes a possibly schema-qualified table name.
func snapshotQuery(table string) string {
	ident := pgx.Identifier(strings.Split(table, "."))
	return "SELECT body FROM " + ident.Sanitize() + " ORDER BY created_at DESC LIMIT 1"
}

func (s *PostgresSource) String() string { return s.URL }

// Close closes the connection pool.
func (s *PostgresSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}
