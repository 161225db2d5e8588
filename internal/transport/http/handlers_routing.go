package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"filetrack/internal/routing"
	"filetrack/pkg/platform/httputil"
	"filetrack/pkg/requestcontext"
)

// RoutingHandler serves the state-changing routing commands.
type RoutingHandler struct {
	engine *routing.Engine
	logger *slog.Logger
}

func NewRoutingHandler(engine *routing.Engine, logger *slog.Logger) *RoutingHandler {
	return &RoutingHandler{engine: engine, logger: logger}
}

// Register mounts routing endpoints on the router.
func (h *RoutingHandler) Register(r chi.Router) {
	r.Post("/files/{fileID}/transfer", h.handleTransfer)
	r.Post("/files/{fileID}/accept", h.handleAccept)
	r.Post("/files/{fileID}/disable", h.handleDisable)
	r.Get("/files/{fileID}/state", h.handleState)
}

// handleTransfer handles POST /files/{fileID}/transfer.
func (h *RoutingHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	fileID, err := pathFileID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	event, err := h.engine.Transfer(ctx, fileID, req.parsedDestination, requestcontext.ActorID(ctx), req.Remarks)
	if err != nil {
		h.logger.WarnContext(ctx, "transfer rejected",
			"request_id", requestID,
			"file_id", fileID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "file transferred",
		"request_id", requestID,
		"file_id", fileID.String(),
		"seq", event.Seq,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, fromEvent(event))
}

// handleAccept handles POST /files/{fileID}/accept.
func (h *RoutingHandler) handleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	fileID, err := pathFileID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AcceptRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	event, err := h.engine.Accept(ctx, fileID, requestcontext.ActorID(ctx), req.Remarks, req.ApprovedAt)
	if err != nil {
		h.logger.WarnContext(ctx, "acceptance rejected",
			"request_id", requestID,
			"file_id", fileID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "file accepted",
		"request_id", requestID,
		"file_id", fileID.String(),
		"seq", event.Seq,
	)
	httputil.WriteJSON(w, http.StatusCreated, fromEvent(event))
}

// handleDisable handles POST /files/{fileID}/disable.
func (h *RoutingHandler) handleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	fileID, err := pathFileID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.engine.Disable(ctx, fileID, requestcontext.ActorID(ctx)); err != nil {
		h.logger.WarnContext(ctx, "disable rejected",
			"request_id", requestID,
			"file_id", fileID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleState handles GET /files/{fileID}/state.
func (h *RoutingHandler) handleState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fileID, err := pathFileID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	state, err := h.engine.State(ctx, fileID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"state": string(state)})
}
