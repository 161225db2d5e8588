package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"filetrack/internal/file"
	"filetrack/internal/history"
	"filetrack/internal/platform/metrics"
	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/httputil"
	"filetrack/pkg/requestcontext"
)

// FilesHandler serves file presentation, reads and the reconstructed
// itinerary.
type FilesHandler struct {
	files   *file.Service
	history *history.Builder
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewFilesHandler(files *file.Service, builder *history.Builder, logger *slog.Logger, m *metrics.Metrics) *FilesHandler {
	return &FilesHandler{
		files:   files,
		history: builder,
		logger:  logger,
		metrics: m,
	}
}

// Register mounts file endpoints on the router.
func (h *FilesHandler) Register(r chi.Router) {
	r.Post("/files", h.handlePresent)
	r.Get("/files", h.handleList)
	r.Get("/files/{fileID}", h.handleGet)
	r.Get("/files/{fileID}/history", h.handleHistory)
}

// handlePresent handles POST /files.
func (h *FilesHandler) handlePresent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	actorID := requestcontext.ActorID(ctx)
	req, ok := httputil.DecodeAndPrepare[PresentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.files.Present(ctx, actorID, file.PresentInput{
		FileNumber: req.FileNumber,
		FileName:   req.FileName,
		Subject:    req.Subject,
		FileType:   req.parsedType,
		Location:   req.parsedLocation,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "file presentation failed",
			"request_id", requestID,
			"file_number", req.FileNumber,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "file presented",
		"request_id", requestID,
		"file_id", record.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, fromRecord(record))
}

// handleList handles GET /files. The status query selects all, transferred
// or non-transferred records.
func (h *FilesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := file.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.files.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "file listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]FileResponse, 0, len(records))
	for _, record := range records {
		out = append(out, fromRecord(record))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"files": out})
}

// handleGet handles GET /files/{fileID}.
func (h *FilesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fileID, err := pathFileID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.files.Get(ctx, fileID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRecord(record))
}

// handleHistory handles GET /files/{fileID}/history. A file that was never
// routed returns an empty itinerary, not 404.
func (h *FilesHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fileID, err := pathFileID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// The record lookup distinguishes "never routed" from "does not exist".
	if _, err := h.files.Get(ctx, fileID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.history.BuildItinerary(ctx, fileID)
	if err != nil {
		h.logger.ErrorContext(ctx, "itinerary build failed",
			"request_id", requestcontext.RequestID(ctx),
			"file_id", fileID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"itinerary": fromItinerary(entries)})
}

// pathFileID extracts and validates the fileID path parameter.
func pathFileID(r *http.Request) (id.FileID, error) {
	fileID, err := id.ParseFileID(chi.URLParam(r, "fileID"))
	if err != nil {
		return id.FileID{}, dErrors.New(dErrors.CodeBadRequest, "invalid file id")
	}
	return fileID, nil
}
