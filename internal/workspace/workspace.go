// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package workspace holds the most recent parse of every open document and
// answers hover and diagnostic requests against it.
package workspace

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/hcl/v2"

	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/hover"
	"grimm.is/kcldoc/internal/lint"
	"grimm.is/kcldoc/internal/logging"
	"grimm.is/kcldoc/internal/lsp"
	"grimm.is/kcldoc/internal/metrics"
	"grimm.is/kcldoc/internal/schema"
)

// Options configures a Workspace. Zero values select defaults.
type Options struct {
	Logger  *logging.Logger
	Metrics *metrics.Metrics
	Lint    *lint.Config
	Hover   *hover.Options
}

// Document is one parsed revision of a source buffer. It is never mutated
// after it has been stored.
type Document struct {
	URI      string
	Text     []byte
	Hash     uint64
	Revision int

	Parsed *schema.Document
	Report lint.Report

	indexes map[string]*hover.Index
}

// Index returns the hover index of the named schema.
func (d *Document) Index(name string) *hover.Index {
	return d.indexes[name]
}

// Workspace maps document URIs to their latest parse.
type Workspace struct {
	mu   sync.RWMutex
	docs map[string]*Document

	parser    *schema.Parser
	logger    *logging.Logger
	metrics   *metrics.Metrics
	lintCfg   lint.Config
	hoverOpts hover.Options

	listenerMu sync.Mutex
	onChange   []func(*Document)
}

// New creates an empty workspace.
func New(opts Options) *Workspace {
	w := &Workspace{
		docs:      make(map[string]*Document),
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		lintCfg:   lint.DefaultConfig(),
		hoverOpts: hover.DefaultOptions(),
	}
	if w.logger == nil {
		w.logger = logging.WithComponent("workspace")
	}
	if w.metrics == nil {
		w.metrics = metrics.New()
	}
	if opts.Lint != nil {
		w.lintCfg = *opts.Lint
	}
	if opts.Hover != nil {
		w.hoverOpts = *opts.Hover
	}
	w.parser = schema.NewParser(w.logger)
	return w
}

// Metrics returns the instruments the workspace updates.
func (w *Workspace) Metrics() *metrics.Metrics {
	return w.metrics
}

// OnChange registers a callback run after a document has been re-parsed.
func (w *Workspace) OnChange(fn func(*Document)) {
	w.listenerMu.Lock()
	defer w.listenerMu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Open stores text under uri, replacing any previous content.
func (w *Workspace) Open(uri string, text []byte) *Document {
	return w.Change(uri, text)
}

// Change replaces the content of uri. When the content hash is unchanged the
// stored document is returned without parsing.
func (w *Workspace) Change(uri string, text []byte) *Document {
	h := xxhash.Sum64(text)

	w.mu.RLock()
	prev := w.docs[uri]
	w.mu.RUnlock()
	if prev != nil && prev.Hash == h {
		w.metrics.ParsesSkipped.Inc()
		return prev
	}

	doc := w.parse(uri, text, h)

	w.mu.Lock()
	if cur := w.docs[uri]; cur != nil {
		doc.Revision = cur.Revision + 1
	}
	w.docs[uri] = doc
	w.metrics.OpenDocuments.Set(float64(len(w.docs)))
	w.mu.Unlock()

	w.notify(doc)
	return doc
}

func (w *Workspace) parse(uri string, text []byte, h uint64) *Document {
	src := make([]byte, len(text))
	copy(src, text)

	filename := uri
	if path, err := lsp.PathFromURI(uri); err == nil {
		filename = path
	}
	parsed := w.parser.Parse(filename, src)
	doc := &Document{
		URI:     uri,
		Text:    src,
		Hash:    h,
		Parsed:  parsed,
		Report:  lint.Run(parsed, w.lintCfg),
		indexes: make(map[string]*hover.Index, len(parsed.Schemas)),
	}
	for _, s := range parsed.Schemas {
		doc.indexes[s.Name] = hover.NewIndex(s)
	}

	w.metrics.Parses.Inc()
	for _, d := range parsed.Diagnostics {
		w.metrics.ParseDiags.WithLabelValues(severityLabel(d.Severity)).Inc()
	}
	counts := make(map[string]int)
	for k, n := range doc.Report.Counts() {
		counts[k.String()] = n
	}
	w.metrics.ObserveMismatches(counts)

	w.logger.Debug("document parsed",
		"uri", uri,
		"schemas", len(parsed.Schemas),
		"diagnostics", len(doc.Report.Diagnostics))
	return doc
}

func (w *Workspace) notify(doc *Document) {
	w.listenerMu.Lock()
	fns := append([]func(*Document){}, w.onChange...)
	w.listenerMu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
}

// Close forgets uri.
func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, uri)
	w.metrics.OpenDocuments.Set(float64(len(w.docs)))
}

// Get returns the latest document for uri.
func (w *Workspace) Get(uri string) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.docs[uri]
	return doc, ok
}

// URIs returns the open document URIs in sorted order.
func (w *Workspace) URIs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.docs))
	for uri := range w.docs {
		out = append(out, uri)
	}
	sort.Strings(out)
	return out
}

func (w *Workspace) document(uri string) (*Document, error) {
	doc, ok := w.Get(uri)
	if !ok {
		return nil, errors.Attr(errors.New(errors.KindNotFound, "document is not open"), "uri", uri)
	}
	return doc, nil
}

// Hover answers a hover request. It returns nil without error when the
// position is over nothing hoverable.
func (w *Workspace) Hover(uri string, pos lsp.Position) (*lsp.HoverResult, error) {
	r, doc, err := w.Resolve(uri, pos)
	if err != nil || r == nil {
		return nil, err
	}
	res := lsp.NewHoverResult(doc.Text, r.Format(w.hoverOpts), r.Range)
	return &res, nil
}

// Resolve returns the rendered hover for an editor position and the document
// it was resolved against.
func (w *Workspace) Resolve(uri string, pos lsp.Position) (*hover.Rendered, *Document, error) {
	doc, err := w.document(uri)
	if err != nil {
		return nil, nil, err
	}
	p, err := lsp.ToPos(doc.Text, pos)
	if err != nil {
		return nil, doc, errors.Attr(errors.Wrap(err, errors.KindValidation, "invalid position"), "uri", uri)
	}

	var r *hover.Rendered
	if s := doc.Parsed.SchemaAt(p.Byte); s != nil {
		r = doc.Index(s.Name).Resolve(p)
	}
	if r == nil {
		w.metrics.ObserveHover("")
		return nil, doc, nil
	}
	w.metrics.ObserveHover(r.Kind.String())
	return r, doc, nil
}

// Diagnostics returns the parse and lint diagnostics of uri in editor form.
func (w *Workspace) Diagnostics(uri string) ([]lsp.Diagnostic, error) {
	doc, err := w.document(uri)
	if err != nil {
		return nil, err
	}
	return lsp.FromDiagnostics(doc.Text, doc.Report.Diagnostics), nil
}

func severityLabel(s hcl.DiagnosticSeverity) string {
	switch s {
	case hcl.DiagError:
		return "error"
	case hcl.DiagWarning:
		return "warning"
	}
	return "hint"
}
