// Package cppfront turns C++ source into cppast documents: it parses with
// tree-sitter, lowers the concrete syntax tree into the closed cppast node set
// and binds namespaces, classes, functions and local variables to scopes.
package cppfront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phobologic/testscan/internal/cppast"
	"github.com/phobologic/testscan/internal/lang"
)

// ErrFileTooLarge is returned for sources above the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// DefaultMaxFileSize is the size limit applied when none is configured.
const DefaultMaxFileSize = 1 << 20

type options struct {
	maxFileSize int64
	logger      *slog.Logger
}

// Option configures Parse.
type Option func(*options)

// WithMaxFileSize sets the largest source Parse accepts. Zero or less disables
// the limit.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Parse parses one C++ source file. file is recorded verbatim on the document
// and on every symbol. Syntax errors are tolerated: tree-sitter recovers and
// the recovered tree is lowered as far as it goes.
func Parse(ctx context.Context, source []byte, file string, opts ...Option) (*cppast.Document, error) {
	o := options{maxFileSize: DefaultMaxFileSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxFileSize > 0 && int64(len(source)) > o.maxFileSize {
		return nil, fmt.Errorf("%w: %s: size %d exceeds limit %d", ErrFileTooLarge, file, len(source), o.maxFileSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cpp := lang.Languages["cpp"]
	query, err := cpp.GetIncludeQuery()
	if err != nil {
		return nil, fmt.Errorf("loading include query: %w", err)
	}

	moc := neutralize(source)

	parser := cpp.NewParser()
	defer parser.Close()
	tree, err := parser.ParseCtx(ctx, nil, moc.source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		o.logger.Debug("syntax errors recovered", "file", file)
	}

	b := newBinder(moc.source, file, moc.slotAccess)
	doc := b.document(root)
	doc.Includes = lang.Includes(query, root, moc.source)
	doc.MainClasses = moc.mainClasses

	o.logger.Debug("parsed",
		"file", file,
		"symbols", len(doc.Symbols),
		"includes", len(doc.Includes),
	)
	return doc, nil
}
