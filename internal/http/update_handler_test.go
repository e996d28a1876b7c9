package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskbooker/internal/dispatch"
)

type fakeSubmitter struct {
	err  error
	seen *dispatch.Invocation
	run  func(ctx context.Context, inv *dispatch.Invocation)
}

func (f *fakeSubmitter) Submit(ctx context.Context, inv *dispatch.Invocation) error {
	f.seen = inv
	if f.err != nil {
		return f.err
	}
	if f.run != nil {
		f.run(ctx, inv)
	}
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func postUpdate(t *testing.T, handler http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/updates", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

const sampleUpdate = `{"update_id":7,"message":{"from":{"id":42,"first_name":"Ann","username":"ann"},"text":"/book 2026-10-20 3"}}`

func TestUpdateHandler_ReturnsReplies(t *testing.T) {
	t.Parallel()

	submitter := &fakeSubmitter{run: func(ctx context.Context, inv *dispatch.Invocation) {
		_ = inv.Reply(ctx, "first")
		_ = inv.Reply(ctx, "second")
	}}
	router := NewRouter(RouterConfig{Updates: NewUpdateHandler(submitter, nil)})

	recorder := postUpdate(t, router, sampleUpdate, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp updateResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.UpdateID)
	assert.Equal(t, []string{"first", "second"}, resp.Replies)

	require.NotNil(t, submitter.seen)
	assert.Equal(t, dispatch.Actor{ID: 42, Name: "Ann", Username: "ann"}, submitter.seen.Actor)
	assert.Equal(t, "/book", submitter.seen.Command)
	assert.Equal(t, []string{"2026-10-20", "3"}, submitter.seen.Args)
}

func TestUpdateHandler_EmptyRepliesEncodeAsArray(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Updates: NewUpdateHandler(&fakeSubmitter{}, nil)})
	recorder := postUpdate(t, router, sampleUpdate, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"update_id":7,"replies":[]}`, recorder.Body.String())
}

func TestUpdateHandler_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		submitErr  error
		headers    map[string]string
		wantStatus int
	}{
		{name: "malformed json", body: `{"update_id":`, wantStatus: http.StatusBadRequest},
		{name: "no message", body: `{"update_id":1}`, wantStatus: http.StatusBadRequest},
		{name: "no sender", body: `{"update_id":1,"message":{"text":"/help"}}`, wantStatus: http.StatusBadRequest},
		{name: "loop stopped", body: sampleUpdate, submitErr: dispatch.ErrLoopStopped, wantStatus: http.StatusServiceUnavailable},
		{name: "caller gave up", body: sampleUpdate, submitErr: context.Canceled, wantStatus: http.StatusServiceUnavailable},
		{name: "body too large", body: `{"update_id":1,"message":{"from":{"id":1},"text":"` + strings.Repeat("x", maxUpdateBytes) + `"}}`, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			submitter := &fakeSubmitter{err: tc.submitErr}
			router := NewRouter(RouterConfig{Updates: NewUpdateHandler(submitter, nil)})
			recorder := postUpdate(t, router, tc.body, tc.headers)

			assert.Equal(t, tc.wantStatus, recorder.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRouter_SecretAndMethods(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{
		Updates: NewUpdateHandler(&fakeSubmitter{}, nil),
		Health:  NewHealthHandler(fakePinger{}, nil),
		Secret:  "s3cret",
	})

	assert.Equal(t, http.StatusUnauthorized, postUpdate(t, router, sampleUpdate, nil).Code)
	assert.Equal(t, http.StatusOK, postUpdate(t, router, sampleUpdate, map[string]string{SecretHeader: "s3cret"}).Code)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/updates", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	assert.Equal(t, http.MethodPost, recorder.Header().Get("Allow"))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, recorder.Code, "health does not need the secret")
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestHealthHandler_StoreDown(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Health: NewHealthHandler(fakePinger{err: errors.New("closed")}, nil)})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, recorder.Body.String())
}

func TestUpdateHandler_ThroughLoop(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	loop := dispatch.NewLoop(func(ctx context.Context, inv *dispatch.Invocation) error {
		return inv.Reply(ctx, "echo "+strings.Join(inv.Args, " "))
	}, nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	router := NewRouter(RouterConfig{Updates: NewUpdateHandler(loop, nil)})
	recorder := postUpdate(t, router, sampleUpdate, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"update_id":7,"replies":["echo 2026-10-20 3"]}`, recorder.Body.String())
}
