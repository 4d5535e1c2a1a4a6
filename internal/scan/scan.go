// Package scan builds a project-wide test index: it parses C++ sources
// concurrently, resolves which classes QtTest runs, and collects their test
// functions and data tags. Quick test cases come from pre-parsed QML
// documents.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/testscan/internal/cppast"
	"github.com/phobologic/testscan/internal/cppfront"
	"github.com/phobologic/testscan/internal/discover"
	"github.com/phobologic/testscan/internal/graph"
	"github.com/phobologic/testscan/internal/model"
	"github.com/phobologic/testscan/internal/qmlast"
)

// Scanner turns source files into a model.TestIndex. A Scanner is safe for
// concurrent use.
type Scanner struct {
	workers     int
	logger      *slog.Logger
	maxFileSize int64
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers bounds how many files are parsed and visited at once.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger for skipped files and unresolved classes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxFileSize skips sources larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(s *Scanner) { s.maxFileSize = n }
}

// New returns a Scanner with defaults: GOMAXPROCS workers, the default
// logger and cppfront's size limit.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		workers:     runtime.GOMAXPROCS(0),
		logger:      slog.Default(),
		maxFileSize: cppfront.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan parses the C++ files among files (paths relative to root) and indexes
// them. Files that cannot be read or parsed are logged and skipped; only
// context cancellation fails the scan. Files of other languages are ignored:
// QML documents go through Index.
func (s *Scanner) Scan(ctx context.Context, root string, files []discover.FileEntry) (*model.TestIndex, error) {
	docs, err := s.parseAll(ctx, root, files)
	if err != nil {
		return nil, err
	}
	idx, err := s.Index(ctx, cppast.NewSnapshot(docs...), nil)
	if err != nil {
		return nil, err
	}
	idx.Root = filepath.Base(root)
	return idx, nil
}

func (s *Scanner) parseAll(ctx context.Context, root string, files []discover.FileEntry) ([]*cppast.Document, error) {
	docs := make([]*cppast.Document, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range files {
		i, f := i, f
		if f.Language != "cpp" {
			s.logger.Debug("skipping file without a C++ front end",
				slog.String("file", f.Path),
				slog.String("language", f.Language))
			continue
		}
		g.Go(func() error {
			source, err := os.ReadFile(filepath.Join(root, f.Path))
			if err != nil {
				s.logger.Warn("reading file", slog.String("file", f.Path), slog.Any("error", err))
				return nil
			}
			doc, err := cppfront.Parse(gctx, source, filepath.ToSlash(f.Path),
				cppfront.WithMaxFileSize(s.maxFileSize),
				cppfront.WithLogger(s.logger))
			switch {
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			case errors.Is(err, cppfront.ErrFileTooLarge):
				s.logger.Warn("skipping large file", slog.String("file", f.Path), slog.Int64("limit", s.maxFileSize))
				return nil
			case err != nil:
				s.logger.Warn("parsing file", slog.String("file", f.Path), slog.Any("error", err))
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing sources: %w", err)
	}
	return docs, nil
}

// Index builds the test index for an already parsed snapshot plus any QML
// documents. The result is deterministic for a given input.
func (s *Scanner) Index(ctx context.Context, snap *cppast.Snapshot, quick []*qmlast.Document) (*model.TestIndex, error) {
	includes := graph.Build(snap.Documents())
	candidates := testDocuments(snap, includes)
	found := make([][]model.TestCase, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, doc := range candidates {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = s.casesFor(snap, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("indexing: %w", err)
	}

	idx := &model.TestIndex{}
	seen := make(map[string]bool)
	for _, cases := range found {
		for _, tc := range cases {
			if seen[tc.Name] {
				continue
			}
			seen[tc.Name] = true
			idx.Cases = append(idx.Cases, tc)
		}
	}
	for _, doc := range quick {
		if doc != nil {
			idx.Cases = append(idx.Cases, QuickCases(doc)...)
		}
	}
	sortCases(idx.Cases)

	s.logger.Debug("indexed",
		slog.Int("documents", len(snap.Documents())),
		slog.Int("include_edges", len(includes.Dependencies())),
		slog.Int("candidates", len(candidates)),
		slog.Int("cases", len(idx.Cases)))
	return idx, nil
}
