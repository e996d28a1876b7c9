package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/example/deskbooker/internal/dispatch"
)

const maxUpdateBytes = 64 << 10

// Submitter runs an invocation to completion. dispatch.Loop implements it.
type Submitter interface {
	Submit(ctx context.Context, inv *dispatch.Invocation) error
}

// UpdateHandler turns webhook updates into invocations.
type UpdateHandler struct {
	submitter Submitter
	responder responder
	logger    *slog.Logger
}

// NewUpdateHandler creates an UpdateHandler. A nil logger uses slog.Default.
func NewUpdateHandler(submitter Submitter, logger *slog.Logger) *UpdateHandler {
	base := defaultLogger(logger)
	return &UpdateHandler{submitter: submitter, responder: newResponder(base), logger: base}
}

func (h *UpdateHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "UpdateHandler", operation, attrs...)
}

// Handle serves POST /updates.
func (h *UpdateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.submitter == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	var req updateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&req); err != nil {
		h.log(ctx, "Handle", "error_kind", "bad_request").WarnContext(ctx, "failed to decode update", "error", err)
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.Message == nil || req.Message.From.ID <= 0 {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errMissingSender)
		return
	}

	logger := h.log(ctx, "Handle", "update_id", req.UpdateID, "actor_id", req.Message.From.ID)

	buf := &replyBuffer{}
	inv := dispatch.NewInvocation(req.Message.From.toActor(), req.Message.Text, buf)
	if err := h.submitter.Submit(ctx, inv); err != nil {
		switch {
		case errors.Is(err, dispatch.ErrLoopStopped):
			h.responder.writeError(ctx, w, http.StatusServiceUnavailable, errDispatchStopped)
		default:
			// The caller went away; the command still runs to completion.
			logger.WarnContext(ctx, "update abandoned before completion", "error", err)
			h.responder.writeError(ctx, w, http.StatusServiceUnavailable, err)
		}
		return
	}

	logger.DebugContext(ctx, "update processed", "invocation_id", inv.ID, "replies", buf.len())
	h.responder.writeJSON(ctx, w, http.StatusOK, updateResponse{
		UpdateID: req.UpdateID,
		Replies:  buf.all(),
	})
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /healthz.
type HealthHandler struct {
	pinger    Pinger
	responder responder
}

// NewHealthHandler creates a HealthHandler. A nil pinger always reports ok.
func NewHealthHandler(pinger Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, responder: newResponder(logger)}
}

// Handle serves GET /healthz.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

type replyBuffer struct {
	mu      sync.Mutex
	replies []string
}

func (b *replyBuffer) Reply(_ context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies = append(b.replies, text)
	return nil
}

func (b *replyBuffer) all() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.replies))
	copy(out, b.replies)
	return out
}

func (b *replyBuffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.replies)
}

type updateRequest struct {
	UpdateID int64          `json:"update_id"`
	Message  *messageRecord `json:"message"`
}

type messageRecord struct {
	From senderRecord `json:"from"`
	Text string       `json:"text"`
}

type senderRecord struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

func (s senderRecord) toActor() dispatch.Actor {
	return dispatch.Actor{ID: s.ID, Name: s.FirstName, Username: s.Username}
}

type updateResponse struct {
	UpdateID int64    `json:"update_id"`
	Replies  []string `json:"replies"`
}

type healthResponse struct {
	Status string `json:"status"`
}
