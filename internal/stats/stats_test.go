package stats

import (
	"expvar"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatsUpdater(t *testing.T) {
	mux := http.NewServeMux()
	su := NewStatsUpdater(mux)
	assert.NotNil(t, su, "expected StatsUpdater to be non-nil")
	assert.NotNil(t, su.updateChan, "expected updateChan to be initialized")
	handler, pattern := mux.Handler(&http.Request{URL: &url.URL{Path: "/debug/vars"}, Method: http.MethodGet})
	assert.NotNil(t, handler, "expected handler for /debug/vars to be set")
	assert.Equal(t, "GET /debug/vars", pattern, "expected handler to be registered for GET method on /debug/vars")
}

func TestStatsUpdater_IncrDecr(t *testing.T) {
	su := &StatsUpdater{
		vars:       new(expvar.Map),
		updateChan: make(chan *metricsUpdateReq, 8),
	}

	su.RegisterMetric(MessagesCreated)
	su.Incr(MessagesCreated)
	su.Incr(MessagesCreated)
	su.Decr(MessagesCreated)
	su.Stop()

	// drain synchronously so the assertion below observes the final value
	su.updateMetrics()

	assert.Equal(t, "1", su.vars.Get(MessagesCreated).String(), "expected counter to reflect two increments and one decrement")
}

func TestStatsUpdater_expvarHandler(t *testing.T) {
	su := &StatsUpdater{
		vars:       new(expvar.Map),
		updateChan: make(chan *metricsUpdateReq, 1),
	}
	su.RegisterMetric(RoomsCreated)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	su.expvarHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), RoomsCreated)
}
