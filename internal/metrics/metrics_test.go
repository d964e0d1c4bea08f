package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opensky-state-decoder/internal/model"
)

func TestRecordDecode(t *testing.T) {
	m := NewMetrics()

	m.RecordDecode(&model.Reply{Vehicles: make([]model.StateVector, 3)}, nil, time.Millisecond)
	m.RecordDecode(&model.Reply{
		Vehicles: []model.StateVector{{
			ICAO24: "x",
			Diagnostics: []model.Diagnostic{
				{Kind: model.KindFieldParse, Record: 0, Field: 5},
				{Kind: model.KindFieldParse, Record: 0, Field: 6},
			},
		}},
		Diagnostics: []model.Diagnostic{{Kind: model.KindUnknownKey, Record: -1, Field: -1}},
	}, nil, time.Millisecond)
	m.RecordDecode(nil, errors.New("malformed envelope"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.repliesDecoded.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repliesDecoded.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repliesDecoded.WithLabelValues("malformed")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.vehiclesDecoded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.diagnostics.WithLabelValues(string(model.KindFieldParse))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.diagnostics.WithLabelValues(string(model.KindUnknownKey))))
}

func TestCountersAndGauges(t *testing.T) {
	m := NewMetrics()

	m.IncrementAPIRequests()
	m.IncrementAPIRequests()
	m.IncrementAPIErrors()
	m.SetBufferSize(7)
	m.SetBufferCapacity(100)
	m.IncrementHTTPRequests("/vehicles")
	m.IncrementHTTPErrors("/decode")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiErrors))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.bufferSize))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.bufferCapacity))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/vehicles")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpErrors.WithLabelValues("/decode")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.IncrementAPIRequests()
	m.RecordAPILatency(150 * time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "opensky_api_requests_total 1")
	assert.Contains(t, body, "opensky_api_latency_seconds_count 1")
}
