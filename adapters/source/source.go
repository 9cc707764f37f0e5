// Package source loads the reference catalog from its external document.
// The document is an xlsx workbook addressed by a local path, an http(s)
// URL, or a stable document id expanded through an export URL template.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"quote-tool/core/catalog"
	"quote-tool/internal/config"
	"quote-tool/internal/errors"
	"quote-tool/internal/logging"
)

// maxWorkbookBytes bounds a downloaded workbook
const maxWorkbookBytes = 32 << 20

// Location is a resolved catalog address
type Location struct {
	// Remote is true for http(s) locations
	Remote bool

	// Target is the file path or URL
	Target string
}

func (l Location) String() string {
	return l.Target
}

// Resolve turns the configured source into a location. An explicit source
// wins over a document id.
func Resolve(cfg config.CatalogConfig) (Location, error) {
	if src := strings.TrimSpace(cfg.Source); src != "" {
		if isURL(src) {
			return Location{Remote: true, Target: src}, nil
		}
		return Location{Target: src}, nil
	}

	id := strings.TrimSpace(cfg.DocumentID)
	if id == "" {
		return Location{}, errors.New(errors.TypeConfig, "no catalog source configured (set catalog.source or catalog.document_id)")
	}
	if isURL(id) {
		return Location{Remote: true, Target: id}, nil
	}
	if !strings.Contains(cfg.ExportURLTemplate, "%s") {
		return Location{}, errors.Newf(errors.TypeConfig, "catalog.export_url_template %q has no %%s placeholder", cfg.ExportURLTemplate)
	}
	return Location{Remote: true, Target: fmt.Sprintf(cfg.ExportURLTemplate, url.PathEscape(id))}, nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Result is a loaded catalog with its provenance
type Result struct {
	Catalog  *catalog.Catalog
	Report   *catalog.LoadReport
	Location Location
	LoadedAt time.Time
}

// Loader fetches and parses the catalog workbook
type Loader struct {
	cfg        config.CatalogConfig
	httpClient *http.Client
	policy     catalog.RowPolicy
	log        *zap.Logger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		l.httpClient = c
	}
}

// NewLoader creates a loader from catalog configuration
func NewLoader(cfg config.CatalogConfig, opts ...LoaderOption) *Loader {
	policy := catalog.DefaultRowPolicy()
	if len(cfg.NonPricedMarkers) > 0 {
		policy.NonPricedMarkers = cfg.NonPricedMarkers
	}
	if len(cfg.ExcludedSegments) > 0 {
		policy.ExcludedSegments = cfg.ExcludedSegments
	}

	l := &Loader{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		policy: policy,
		log:    logging.Named("source"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves, fetches and parses the catalog. Any failure is fatal to
// the session: the error is a FetchError, SchemaError or ConfigError.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	loc, err := Resolve(l.cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	l.log.Info("loading catalog", zap.String("location", loc.Target), zap.Bool("remote", loc.Remote))

	data, err := l.read(ctx, loc)
	if err != nil {
		return nil, err
	}

	tables, err := ReadWorkbook(bytes.NewReader(data), l.cfg.Sheets)
	if err != nil {
		return nil, err
	}

	cat, report, err := catalog.FromTables(tables, l.policy)
	if err != nil {
		return nil, err
	}

	for _, d := range report.Dropped {
		l.log.Debug("dropped catalog row",
			logging.Table(string(d.Table)),
			logging.Row(d.Row),
			logging.Key(d.Key),
			zap.String("reason", string(d.Reason)),
		)
	}
	l.log.Info("catalog loaded",
		zap.Int("plans", report.Stats.Plans),
		zap.Int("seats", report.Stats.Seats),
		zap.Int("productivity", report.Stats.Productivity),
		zap.Int("hardware", report.Stats.Hardware),
		zap.Int("dropped", len(report.Dropped)),
		zap.String("hash", cat.Hash().String()),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{Catalog: cat, Report: report, Location: loc, LoadedAt: start}, nil
}

func (l *Loader) read(ctx context.Context, loc Location) ([]byte, error) {
	if loc.Remote {
		return l.fetch(ctx, loc.Target)
	}
	data, err := os.ReadFile(loc.Target)
	if err != nil {
		return nil, errors.Fetch(fmt.Sprintf("failed to read catalog workbook %s", loc.Target), err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Fetch("invalid catalog URL", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, errors.Fetch("catalog source unreachable", err).WithContext("url", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Fetch(fmt.Sprintf("catalog source returned status %d", resp.StatusCode), nil).
			WithContext("url", target).
			WithContext("status", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxWorkbookBytes+1))
	if err != nil {
		return nil, errors.Fetch("failed to read catalog response", err)
	}
	if len(data) > maxWorkbookBytes {
		return nil, errors.Fetch(fmt.Sprintf("catalog workbook exceeds %d bytes", maxWorkbookBytes), nil)
	}
	return data, nil
}
