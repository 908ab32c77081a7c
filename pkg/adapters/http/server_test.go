package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/pkg/adapters/memory"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(memory.NewStore(), gift.New())
	srv := httptest.NewServer(NewHandler(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeSession(t *testing.T, data []byte) SessionResponse {
	t.Helper()
	var out SessionResponse
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestServer_Lifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, data := do(t, http.MethodPost, srv.URL+"/sessions", CreateRequest{ID: "s1", Name: "traffic light"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	created := decodeSession(t, data)
	assert.Equal(t, "s1", created.SessionID)
	assert.Equal(t, "traffic light", created.Name)
	assert.Equal(t, -1, created.Version)
	assert.Equal(t, "/sessions/s1", resp.Header.Get("Location"))

	resp, data = do(t, http.MethodPost, srv.URL+"/sessions/s1/actions", domain.Action{Type: domain.ActionNewAutomaton})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	after := decodeSession(t, data)
	assert.Equal(t, 0, after.Version)
	assert.True(t, after.CanUndo)
	assert.Len(t, after.State.Editor.Automatons, 1)

	resp, data = do(t, http.MethodPost, srv.URL+"/sessions/s1/actions",
		map[string]any{"type": domain.ActionAddNode, "payload": map[string]any{"automatonId": 1}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Len(t, decodeSession(t, data).State.Editor.Nodes, 1)

	resp, data = do(t, http.MethodPost, srv.URL+"/sessions/s1/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	undone := decodeSession(t, data)
	assert.Empty(t, undone.State.Editor.Nodes)
	assert.True(t, undone.CanRedo)

	resp, data = do(t, http.MethodPost, srv.URL+"/sessions/s1/redo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeSession(t, data).State.Editor.Nodes, 1)

	resp, data = do(t, http.MethodGet, srv.URL+"/sessions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"sessions":["s1"]}`, string(data))

	resp, _ = do(t, http.MethodDelete, srv.URL+"/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CreateGeneratesID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, data := do(t, http.MethodPost, srv.URL+"/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	created := decodeSession(t, data)
	assert.Len(t, created.SessionID, 36)

	resp, _ = do(t, http.MethodPost, srv.URL+"/sessions", CreateRequest{ID: created.SessionID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_ErrorStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, http.MethodPost, srv.URL+"/sessions", CreateRequest{ID: "s1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/sessions/missing/undo", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/sessions/s1/actions", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/sessions/s1/actions", map[string]any{"payload": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing type")

	resp, data := do(t, http.MethodPost, srv.URL+"/sessions/s1/actions",
		map[string]any{"type": domain.ActionRemoveNode, "payload": map[string]any{"nodeId": 3}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(data), "error")

	resp, _ = do(t, http.MethodPut, srv.URL+"/sessions/s1/snapshot", []byte(`"nope"`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_SnapshotRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, http.MethodPost, srv.URL+"/sessions", CreateRequest{ID: "src"})
	do(t, http.MethodPost, srv.URL+"/sessions/src/actions", domain.Action{Type: domain.ActionAddGlobalInput})

	resp, exported := do(t, http.MethodGet, srv.URL+"/sessions/src/snapshot", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "src.json")

	resp, data := do(t, http.MethodPut, srv.URL+"/sessions/dst/snapshot", exported)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	imported := decodeSession(t, data)
	assert.Equal(t, []string{"x0"}, imported.State.Editor.Inputs)
	assert.True(t, imported.CanUndo)
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, data := do(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))

	resp, data = do(t, http.MethodGet, srv.URL+"/info", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), gift.Version)
}

func TestSubscribeEvents_Session(t *testing.T) {
	srv, mgr := newTestServer(t)
	ctx := context.Background()
	_, err := mgr.Create(ctx, "sess-1", "live")
	require.NoError(t, err)

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL+"/sessions/sess-1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 32)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if line := sc.Text(); strings.HasPrefix(line, "data: ") {
				lines <- strings.TrimPrefix(line, "data: ")
			}
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l := <-lines:
			return l
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for SSE event")
			return ""
		}
	}

	assert.Equal(t, "connected", next())

	var initial domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(next()), &initial))
	assert.NotNil(t, initial.State)

	_, err = mgr.Dispatch(ctx, "sess-1", domain.Action{Type: domain.ActionAddGlobalOutput})
	require.NoError(t, err)

	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(next()), &diff))
	assert.Equal(t, "sess-1", diff.SessionID)
	require.NotEmpty(t, diff.Patches)
	assert.True(t, strings.HasPrefix(diff.Patches[0].Path, "/editor/outputs"), diff.Patches[0].Path)
}

func TestMatchesWatch(t *testing.T) {
	version := 3
	historyOnly, _ := json.Marshal(domain.StateDiff{SessionID: "s", Version: &version})
	assert.True(t, matchesWatch(string(historyOnly), []string{"history"}))
	assert.False(t, matchesWatch(string(historyOnly), []string{"state"}))
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("s")
	defer cancel()

	for range 100 {
		sm.Broadcast("s", "x")
	}
	assert.Len(t, ch, cap(ch))
	assert.Equal(t, 1, sm.Subscribers("s"))

	cancel()
	cancel()
	assert.Zero(t, sm.Subscribers("s"))
}
