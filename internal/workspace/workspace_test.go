// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/hover"
	"grimm.is/kcldoc/internal/lint"
	"grimm.is/kcldoc/internal/lsp"
	"grimm.is/kcldoc/internal/testutil"
)

const uri = "file:///work/service.k"

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return New(Options{Logger: testutil.QuietLogger()})
}

func fixture(t *testing.T) []byte {
	return testutil.ReadFile(t, "testdata/service.k")
}

func TestOpenAndHover(t *testing.T) {
	w := newWorkspace(t)
	doc := w.Open(uri, fixture(t))
	require.Len(t, doc.Parsed.Schemas, 2)
	assert.Equal(t, "/work/service.k", doc.Parsed.Filename)

	// "name" on line 26, column 5.
	res, err := w.Hover(uri, lsp.Position{Line: 25, Character: 4})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, lsp.MarkupKindMarkdown, res.Contents.Kind)
	assert.Contains(t, res.Contents.Value, "The name of the long-running service.")
	require.NotNil(t, res.Range)
	assert.Equal(t, lsp.Range{
		Start: lsp.Position{Line: 25, Character: 4},
		End:   lsp.Position{Line: 25, Character: 8},
	}, *res.Range)

	assert.Equal(t, 1.0, testutil.ToFloat64(w.Metrics().Hovers.WithLabelValues("attribute")))
}

func TestHoverInsideExample(t *testing.T) {
	w := newWorkspace(t)
	w.Open(uri, fixture(t))

	r, _, err := w.Resolve(uri, lsp.Position{Line: 20, Character: 10})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, hover.KindExample, r.Kind)
}

func TestHoverNothing(t *testing.T) {
	w := newWorkspace(t)
	w.Open(uri, fixture(t))

	res, err := w.Hover(uri, lsp.Position{Line: 0, Character: 0})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1.0, testutil.ToFloat64(w.Metrics().Hovers.WithLabelValues("none")))
}

func TestHoverErrors(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.Hover(uri, lsp.Position{})
	assert.Equal(t, errors.KindNotFound, errors.GetKind(err))

	w.Open(uri, fixture(t))
	_, err = w.Hover(uri, lsp.Position{Line: 500})
	assert.Equal(t, errors.KindValidation, errors.GetKind(err))
}

func TestChangeSkipsUnchangedContent(t *testing.T) {
	w := newWorkspace(t)
	src := fixture(t)

	first := w.Open(uri, src)
	again := w.Change(uri, append([]byte{}, src...))
	assert.Same(t, first, again)
	assert.Equal(t, 1.0, testutil.ToFloat64(w.Metrics().Parses))
	assert.Equal(t, 1.0, testutil.ToFloat64(w.Metrics().ParsesSkipped))

	edited := w.Change(uri, []byte(strings.Replace(string(src), "name: str", "name?: str", 1)))
	assert.NotSame(t, first, edited)
	assert.Equal(t, 1, edited.Revision)
	assert.Equal(t, 2.0, testutil.ToFloat64(w.Metrics().Parses))

	// The earlier revision is untouched.
	_, ok := first.Parsed.Schemas[0].Attributes.Get("name")
	assert.True(t, ok)
	assert.Contains(t, string(first.Text), "    name: str\n")
}

func TestDiagnostics(t *testing.T) {
	w := newWorkspace(t)
	w.Open(uri, fixture(t))

	diags, err := w.Diagnostics(uri)
	require.NoError(t, err)
	require.Len(t, diags, 4)

	codes := map[string]int{}
	for _, d := range diags {
		codes[d.Code]++
		assert.Equal(t, lsp.SeverityWarning, d.Severity)
		assert.Equal(t, lsp.Source, d.Source)
	}
	assert.Equal(t, map[string]int{"undocumented": 3, "requiredness_mismatch": 1}, codes)
	assert.Equal(t, 3.0, testutil.ToFloat64(w.Metrics().Mismatches.WithLabelValues("undocumented")))

	_, err = w.Diagnostics("file:///missing.k")
	assert.Equal(t, errors.KindNotFound, errors.GetKind(err))
}

func TestLintConfigApplies(t *testing.T) {
	cfg, err := lint.NewConfig(map[string]string{"undocumented": "off"})
	require.NoError(t, err)
	w := New(Options{
		Logger: testutil.QuietLogger(),
		Lint:   &cfg,
	})
	w.Open(uri, fixture(t))
	diags, err := w.Diagnostics(uri)
	require.NoError(t, err)
	assert.Len(t, diags, 1)
}

func TestCloseAndURIs(t *testing.T) {
	w := newWorkspace(t)
	w.Open("file:///b.k", []byte("schema B:\n    b: int\n"))
	w.Open("file:///a.k", []byte("schema A:\n    a: int\n"))
	assert.Equal(t, []string{"file:///a.k", "file:///b.k"}, w.URIs())
	assert.Equal(t, 2.0, testutil.ToFloat64(w.Metrics().OpenDocuments))

	w.Close("file:///a.k")
	_, ok := w.Get("file:///a.k")
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(w.Metrics().OpenDocuments))
}

func TestConcurrentAccess(t *testing.T) {
	w := newWorkspace(t)
	src := fixture(t)
	w.Open(uri, src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			w.Change(uri, append(append([]byte{}, src...), []byte(strings.Repeat("\n", i))...))
		}(i)
		go func() {
			defer wg.Done()
			_, err := w.Hover(uri, lsp.Position{Line: 25, Character: 4})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	_, ok := w.Get(uri)
	assert.True(t, ok)
}

func TestOnChange(t *testing.T) {
	w := newWorkspace(t)
	var seen []string
	w.OnChange(func(d *Document) { seen = append(seen, d.URI) })

	src := fixture(t)
	w.Open(uri, src)
	w.Change(uri, src)
	assert.Equal(t, []string{uri}, seen, "unchanged content does not notify")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.k")
	require.NoError(t, os.WriteFile(path, fixture(t), 0644))

	w := newWorkspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, []string{path}) }()

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	fileURI := lsp.FileURI(abs)
	require.Eventually(t, func() bool {
		_, ok := w.Get(fileURI)
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	updated := []byte("schema Other:\n    x: int\n")
	require.Eventually(t, func() bool {
		// Rewrite until the watcher is registered and picks the change up.
		_ = os.WriteFile(path, updated, 0644)
		doc, ok := w.Get(fileURI)
		return ok && doc.Parsed.Schema("Other") != nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingFile(t *testing.T) {
	w := newWorkspace(t)
	err := w.Watch(context.Background(), []string{filepath.Join(t.TempDir(), "nope.k")})
	assert.Equal(t, errors.KindNotFound, errors.GetKind(err))
}
