package handlers

import (
	"net/http"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/services"
	"github.com/duedesk/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AssignmentHandler provides HTTP handlers for the caller's assignments.
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	log               *zap.Logger
}

// NewAssignmentHandler constructs a handler with the provided service.
func NewAssignmentHandler(assignmentService *services.AssignmentService, log *zap.Logger) *AssignmentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssignmentHandler{assignmentService: assignmentService, log: log}
}

// AssignmentRouter registers /api/assignments routes on the given router.
func AssignmentRouter(r chi.Router, handler *AssignmentHandler, requireSession func(http.Handler) http.Handler) {
	r.Use(requireSession)
	r.Get("/", handler.ListAssignments)
	r.Post("/", handler.CreateAssignment)
	r.Route("/{assignmentID}", func(r chi.Router) {
		r.Get("/", handler.GetAssignment)
		r.Put("/", handler.ReplaceAssignment)
		r.Patch("/", handler.PatchAssignment)
		r.Delete("/", handler.DeleteAssignment)
	})
}

// StatsRouter registers /api/stats on the given router.
func StatsRouter(r chi.Router, handler *AssignmentHandler, requireSession func(http.Handler) http.Handler) {
	r.With(requireSession).Get("/", handler.Stats)
}

func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	info, ok := h.caller(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := types.AssignmentFilter{
		Status:  query.Get("status"),
		Subject: query.Get("subject"),
		Sort:    query.Get("sort"),
	}
	items, err := h.assignmentService.List(r.Context(), info.Username, filter)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	info, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req types.AssignmentInput
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	created, err := h.assignmentService.Create(r.Context(), info.Username, req)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	info, ok := h.caller(w, r)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Get(r.Context(), info.Username, pathParam(r, "assignmentID"))
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) ReplaceAssignment(w http.ResponseWriter, r *http.Request) {
	info, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req types.AssignmentInput
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	updated, err := h.assignmentService.Replace(r.Context(), info.Username, pathParam(r, "assignmentID"), req)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AssignmentHandler) PatchAssignment(w http.ResponseWriter, r *http.Request) {
	info, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req types.AssignmentUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	updated, err := h.assignmentService.Patch(r.Context(), info.Username, pathParam(r, "assignmentID"), req)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	info, ok := h.caller(w, r)
	if !ok {
		return
	}

	id := pathParam(r, "assignmentID")
	existed, err := h.assignmentService.Delete(r.Context(), info.Username, id)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.DeleteResult{Message: services.DeleteMessage(id, existed)})
}

func (h *AssignmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	info, ok := h.caller(w, r)
	if !ok {
		return
	}

	stats, err := h.assignmentService.Stats(r.Context(), info.Username)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AssignmentHandler) caller(w http.ResponseWriter, r *http.Request) (types.SessionInfo, bool) {
	info, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, apperr.AuthMissing, "")
	}
	return info, ok
}
