package httptransport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"filetrack/internal/directory"
	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/httputil"
	"filetrack/pkg/platform/sentinel"
	"filetrack/pkg/requestcontext"
)

// DirectoryHandler serves read-only hierarchy lookups used by routing UIs to
// populate destination pickers.
type DirectoryHandler struct {
	store  directory.Store
	logger *slog.Logger
}

func NewDirectoryHandler(store directory.Store, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{store: store, logger: logger}
}

// Register mounts directory endpoints on the router.
func (h *DirectoryHandler) Register(r chi.Router) {
	r.Get("/directory/offices/{officeID}", h.handleGetOffice)
	r.Get("/directory/offices/{officeID}/departments", h.handleListDepartments)
	r.Get("/directory/departments/{departmentID}/faats", h.handleListFaats)
}

func (h *DirectoryHandler) handleGetOffice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	officeID, err := id.ParseOfficeID(chi.URLParam(r, "officeID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid office id"))
		return
	}

	office, err := h.store.GetOffice(ctx, officeID)
	if err != nil {
		httputil.WriteError(w, translateLookup(err, "office not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromOffice(office))
}

func (h *DirectoryHandler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	officeID, err := id.ParseOfficeID(chi.URLParam(r, "officeID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid office id"))
		return
	}

	// The office lookup turns a bogus id into 404 instead of an empty list.
	if _, err := h.store.GetOffice(ctx, officeID); err != nil {
		httputil.WriteError(w, translateLookup(err, "office not found"))
		return
	}

	departments, err := h.store.ListDepartments(ctx, officeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "department listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"office_id", officeID.String(),
			"error", err,
		)
		httputil.WriteError(w, translateLookup(err, "office not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"departments": fromDepartments(departments)})
}

func (h *DirectoryHandler) handleListFaats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	departmentID, err := id.ParseDepartmentID(chi.URLParam(r, "departmentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid department id"))
		return
	}

	if _, err := h.store.GetDepartment(ctx, departmentID); err != nil {
		httputil.WriteError(w, translateLookup(err, "department not found"))
		return
	}

	faats, err := h.store.ListFaats(ctx, departmentID)
	if err != nil {
		h.logger.ErrorContext(ctx, "faat listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"department_id", departmentID.String(),
			"error", err,
		)
		httputil.WriteError(w, translateLookup(err, "department not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"faats": fromFaats(faats)})
}

func translateLookup(err error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "directory lookup failed")
}
