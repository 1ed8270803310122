// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveHover("attribute")
	m.ObserveHover("attribute")
	m.ObserveHover("")
	m.ObserveMismatches(map[string]int{"undocumented": 3, "orphan_doc_entry": 1})
	m.ObserveMismatches(map[string]int{"undocumented": 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Hovers.WithLabelValues("attribute")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Hovers.WithLabelValues("none")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Mismatches.WithLabelValues("undocumented")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mismatches.WithLabelValues("orphan_doc_entry")))
}

func TestCollectorCount(t *testing.T) {
	m := New()
	m.Parses.Inc()
	m.ParseDiags.WithLabelValues("error").Inc()
	m.Hovers.WithLabelValues("schema").Inc()
	// 3 plain metrics plus one series for each vector that has been touched.
	assert.Equal(t, 5, testutil.CollectAndCount(m))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Parses.Add(2)
	reg, err := NewRegistry(m)
	require.NoError(t, err)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "kcldoc_parses_total 2")
	assert.Contains(t, string(body), "go_goroutines")

	_, err = NewRegistry(m)
	assert.NoError(t, err, "each registry is independent")
}
