package probe_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mittwald/keepdisk/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	running bool
	last    *probe.Result
}

func (s staticSource) Running() bool       { return s.running }
func (s staticSource) Last() *probe.Result { return s.last }

func getStatus(t *testing.T, source probe.StatusSource) (*httptest.ResponseRecorder, probe.StatusResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	probe.NewStatusHandler(source).Router().ServeHTTP(rec, req)

	var body probe.StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestStatusReportsHealthyProbe(t *testing.T) {
	rec, body := getStatus(t, staticSource{running: true, last: &probe.Result{Path: "/vol", OK: true, Entries: 3, WriteCycle: true}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, body.Running)
	require.NotNil(t, body.Last)
	assert.Equal(t, 3, body.Last.Entries)
	assert.Empty(t, body.Message)
}

func TestStatusReportsWriteWarningAsHealthy(t *testing.T) {
	last := &probe.Result{
		Path:     "/vol",
		OK:       true,
		WriteErr: &probe.ProbeError{Kind: probe.KindWriteNotPermitted, Path: "/vol", Err: errors.New("read-only file system")},
	}
	rec, body := getStatus(t, staticSource{running: true, last: last})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body.Warning, "could not create test file on /vol")
}

func TestStatusReportsFailures(t *testing.T) {
	failed := &probe.Result{Path: "/vol", Err: &probe.ProbeError{Kind: probe.KindAccessDenied, Path: "/vol", Err: errors.New("permission denied")}}

	cases := map[string]staticSource{
		"stopped":      {running: false},
		"no probe yet": {running: true},
		"failed probe": {running: true, last: failed},
	}

	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			rec, body := getStatus(t, source)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}
