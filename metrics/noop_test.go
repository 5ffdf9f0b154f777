// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	labels := map[string]string{"method": "join_delegators"}
	assert.NotPanics(t, func() {
		Counter("calls").Add(1)
		CounterVec("calls_vec", []string{"method"}).AddWithLabel(1, labels)
		Gauge("candidates").Set(3)
		Gauge("candidates").Add(-1)
		GaugeVec("stake", []string{"kind"}).SetWithLabel(10, labels)
		GaugeVec("stake", []string{"kind"}).AddWithLabel(10, labels)
		Histogram("latency", nil).Observe(7)
		HistogramVec("latency_vec", []string{"method"}, nil).ObserveWithLabels(7, labels)
	})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
