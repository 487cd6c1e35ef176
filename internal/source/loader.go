// Package source loads the raw dataset once per process.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KaramelBytes/findex-cli/internal/table"
)

// ErrSourceUnavailable matches every load failure; nothing downstream can run without the table.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError carries the location and underlying cause of a failed load.
type SourceError struct {
	Location string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Location, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// Loader reads a workbook or CSV from a path or http(s) URL and memoizes the result.
// The returned table is shared and must be treated as read-only.
type Loader struct {
	location string
	sheet    string
	client   *http.Client
	logger   *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	table *table.Table
	loads int
}

// Option configures a Loader.
type Option func(*Loader)

// WithSheet selects the worksheet by name; the first sheet is used otherwise.
func WithSheet(name string) Option { return func(l *Loader) { l.sheet = name } }

// WithTimeout bounds a remote fetch.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.client = &http.Client{Timeout: d}
		}
	}
}

func WithLogger(lg *slog.Logger) Option { return func(l *Loader) { l.logger = lg } }

// NewLoader returns a loader for location. Nothing is read until Load.
func NewLoader(location string, opts ...Option) *Loader {
	l := &Loader{
		location: location,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the dataset, reading it on first use. Concurrent first calls share
// one read. A failed read is not memoized, so the next call tries again.
func (l *Loader) Load(ctx context.Context) (*table.Table, error) {
	l.mu.RLock()
	t := l.table
	l.mu.RUnlock()
	if t != nil {
		return t, nil
	}
	v, err, _ := l.group.Do(l.location, func() (any, error) {
		l.mu.RLock()
		cached := l.table
		l.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		start := time.Now()
		t, err := l.read(ctx)
		if err != nil {
			return nil, &SourceError{Location: l.location, Err: err}
		}
		l.mu.Lock()
		l.table = t
		l.loads++
		l.mu.Unlock()
		l.logger.Info("dataset loaded",
			slog.String("location", l.location),
			slog.Int("rows", t.Rows()),
			slog.Int("columns", t.Cols()),
			slog.Duration("elapsed", time.Since(start)))
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*table.Table), nil
}

// Reset forgets the memoized table.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.table = nil
	l.mu.Unlock()
}

func (l *Loader) read(ctx context.Context) (*table.Table, error) {
	if l.location == "" {
		return nil, errors.New("no location configured")
	}
	data, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := decode(data, formatOf(l.location), l.sheet)
	if err != nil {
		return nil, err
	}
	return rowsToTable(rows)
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if !isRemote(l.location) {
		b, err := os.ReadFile(l.location)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return b, nil
	}
	l.logger.Debug("fetching dataset", slog.String("url", l.location))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("fetch: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("fetch body: %w", err)
	}
	return buf.Bytes(), nil
}

func isRemote(loc string) bool {
	lower := strings.ToLower(loc)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

type format int

const (
	formatXLSX format = iota
	formatCSV
	formatTSV
)

func formatOf(loc string) format {
	p := loc
	if isRemote(loc) {
		if u, err := url.Parse(loc); err == nil {
			p = u.Path
		}
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".csv":
		return formatCSV
	case ".tsv", ".tab":
		return formatTSV
	default:
		return formatXLSX
	}
}
