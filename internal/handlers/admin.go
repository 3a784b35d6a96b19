package handlers

import (
	"net/http"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/services"
	"github.com/duedesk/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler provides the admin-only endpoints.
type AdminHandler struct {
	adminService   *services.AdminService
	subjectService *services.SubjectService
	exportService  *services.ExportService
	log            *zap.Logger
}

// NewAdminHandler constructs an AdminHandler with the provided services.
func NewAdminHandler(
	adminService *services.AdminService,
	subjectService *services.SubjectService,
	exportService *services.ExportService,
	log *zap.Logger,
) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{
		adminService:   adminService,
		subjectService: subjectService,
		exportService:  exportService,
		log:            log,
	}
}

// AdminRouter registers /api/admin routes on the given router.
func AdminRouter(r chi.Router, handler *AdminHandler, requireSession func(http.Handler) http.Handler) {
	r.Use(requireSession, requireAdmin)
	r.Get("/assignments", handler.ListAllAssignments)
	r.Patch("/assignments/{username}/{assignmentID}", handler.PatchAssignment)
	r.Delete("/assignments/{username}/{assignmentID}", handler.DeleteAssignment)
	r.Post("/subjects", handler.AddSubject)
	r.Delete("/subjects/{subject}", handler.RemoveSubject)
	r.Get("/stats", handler.Stats)
	r.Post("/exports", handler.Export)
}

// SubjectRouter registers the public /api/subjects routes.
func SubjectRouter(r chi.Router, subjectService *services.SubjectService) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, subjectService.GetSubjects(r.Context()))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := sessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, apperr.AuthMissing, "")
			return
		}
		if info.Role != types.RoleAdmin {
			writeError(w, http.StatusForbidden, apperr.AuthInsufficient, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) ListAllAssignments(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())
	all, err := h.adminService.AllAssignments(r.Context(), info.Username)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *AdminHandler) PatchAssignment(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())

	var req types.AssignmentUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	updated, err := h.adminService.PatchAssignment(
		r.Context(),
		info.Username,
		pathParam(r, "username"),
		pathParam(r, "assignmentID"),
		req,
	)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())

	id := pathParam(r, "assignmentID")
	existed, err := h.adminService.DeleteAssignment(r.Context(), info.Username, pathParam(r, "username"), id)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.DeleteResult{Message: services.DeleteMessage(id, existed)})
}

func (h *AdminHandler) AddSubject(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())

	var req types.SubjectInput
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	subjects, err := h.subjectService.AddSubject(r.Context(), info.Username, req)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (h *AdminHandler) RemoveSubject(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())

	subjects, err := h.subjectService.RemoveSubject(r.Context(), info.Username, pathParam(r, "subject"))
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())

	stats, err := h.adminService.Stats(r.Context(), info.Username)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())

	result, err := h.exportService.Export(r.Context(), info.Username)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
