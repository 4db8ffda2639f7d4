package openpaneltest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, url, body string, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_TrackRecordsEvent(t *testing.T) {
	t.Parallel()

	srv := NewServer()
	defer srv.Close()

	resp := post(t, srv.TrackURL(),
		`{"type":"track","payload":{"name":"signup","properties":{"profileId":"p1","plan":"pro"}}}`,
		map[string]string{headerRequestID: "req-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-1", resp.Header.Get(headerRequestID))

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out["id"])

	events := srv.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "signup", events[0].Name)
	assert.Equal(t, "p1", events[0].ProfileID)
	assert.Equal(t, "pro", events[0].Properties["plan"])

	last, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/track", last.Path)

	var body map[string]any
	require.NoError(t, last.DecodeBody(&body))
	assert.Equal(t, "track", body["type"])
}

func TestServer_TrackRejectsBadPayload(t *testing.T) {
	t.Parallel()

	srv := NewServer()
	defer srv.Close()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `nope`},
		{name: "missing type", body: `{"payload":{"name":"x"}}`},
		{name: "track without name", body: `{"type":"track","payload":{"properties":{}}}`},
	}

	for _, tt := range tests {
		resp := post(t, srv.TrackURL(), tt.body, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tt.name)
	}
	assert.Empty(t, srv.Events())
	assert.Len(t, srv.Requests(), len(tests))
}

func TestServer_Credentials(t *testing.T) {
	t.Parallel()

	srv := NewServer(WithCredentials("cid", "secret"))
	defer srv.Close()

	body := `{"type":"identify","payload":{"profileId":"p1"}}`

	resp := post(t, srv.TrackURL(), body, map[string]string{headerClientID: "cid", headerClientSecret: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, srv.TrackURL(), body, map[string]string{headerClientID: "cid", headerClientSecret: "secret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RespondWith(t *testing.T) {
	t.Parallel()

	srv := NewServer()
	defer srv.Close()

	srv.RespondWith("/track", http.StatusTooManyRequests)
	resp := post(t, srv.TrackURL(), `{"type":"track","payload":{"name":"x"}}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	srv.RespondWith("/track", 0)
	resp = post(t, srv.TrackURL(), `{"type":"track","payload":{"name":"x"}}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv.Reset()
	assert.Empty(t, srv.Requests())
	assert.Empty(t, srv.Events())
}

func TestServer_Export(t *testing.T) {
	t.Parallel()

	srv := NewServer()
	defer srv.Close()

	for _, name := range []string{"signup", "login", "signup"} {
		post(t, srv.TrackURL(), `{"type":"track","payload":{"name":"`+name+`","properties":{}}}`, nil)
	}

	resp := get(t, srv.ExportURL()+"/events", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "projectId is required")

	resp = get(t, srv.ExportURL()+"/events?projectId=p&event=signup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events struct {
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
		Data []StoredEvent `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	assert.Equal(t, 2, events.Meta.Count)
	assert.Len(t, events.Data, 2)

	resp = get(t, srv.ExportURL()+"/charts?projectId=p", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var charts struct {
		Series []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"series"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&charts))
	require.Len(t, charts.Series, 2)
	assert.Equal(t, "signup", charts.Series[0].Name)
	assert.Equal(t, 2, charts.Series[0].Count)
	assert.Equal(t, "login", charts.Series[1].Name)
	assert.Equal(t, 1, charts.Series[1].Count)
}
