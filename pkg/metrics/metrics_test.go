package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()

	m.ObserveAdmit(true)
	m.ObserveAdmit(true)
	m.ObserveAdmit(false)
	m.ObserveRebuild(42, 0.003)
	m.ObserveProof(false)
	m.ObserveVerify(true)
	m.ObserveVote("accepted")
	m.ObserveRequest("/root", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.admitOps.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.admitOps.WithLabelValues("false")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.leafCount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.proofOps.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifyOps.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.voteOps.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCtr.WithLabelValues("/root", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveAdmit(true)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `merklevote_admit_operations_total{admitted="true"} 1`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration
	a := NewMetrics()
	b := NewMetrics()
	a.ObserveVote("accepted")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.voteOps.WithLabelValues("accepted")))
}
