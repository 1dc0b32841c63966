package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-roster/internal/model"
	"github.com/stemsi/student-roster/internal/response"
	"github.com/stemsi/student-roster/internal/roster"
	"github.com/stemsi/student-roster/internal/service"
	"github.com/stemsi/student-roster/internal/validator"
)

// RosterHandler exposes the student roster over HTTP.
type RosterHandler struct {
	rosterService *service.RosterService
	log           zerolog.Logger
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService *service.RosterService, log zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		rosterService: rosterService,
		log:           log.With().Str("component", "roster_handler").Logger(),
	}
}

// ListStudents godoc
// GET /api/v1/students?name=&division=
// Lists records matching the optional filters, in roster order.
func (h *RosterHandler) ListStudents(c *gin.Context) {
	var q model.ListStudentsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entries := h.rosterService.List(roster.Filter{Name: q.Name, Division: q.Division})
	response.Success(c, http.StatusOK, gin.H{
		"students": entries,
		"count":    len(entries),
		"total":    h.rosterService.Len(),
	})
}

// GetStudent godoc
// GET /api/v1/students/:id
func (h *RosterHandler) GetStudent(c *gin.Context) {
	var p model.StudentIDParam
	if validator.BindURI(c, &p) != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	st, err := h.rosterService.Get(p.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": st})
}

// CreateStudent godoc
// POST /api/v1/students
// Creates a record from a draft. Percentage and division are derived.
func (h *RosterHandler) CreateStudent(c *gin.Context) {
	var req model.StudentDraftRequest
	if !h.bindDraft(c, &req) {
		return
	}

	st, err := h.rosterService.Create(c.Request.Context(), req.Draft())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": st})
}

// ValidateStudent godoc
// POST /api/v1/students/validate
// Checks a draft without saving it. A valid draft comes back with its
// derived percentage and division.
func (h *RosterHandler) ValidateStudent(c *gin.Context) {
	var req model.StudentDraftRequest
	if !h.bindDraft(c, &req) {
		return
	}

	st, err := h.rosterService.Validate(req.Draft())
	var ve *roster.ValidationError
	if errors.As(err, &ve) {
		response.Success(c, http.StatusOK, gin.H{
			"valid":   false,
			"field":   ve.Field,
			"message": ve.Message,
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"valid":      true,
		"percentage": st.Percentage,
		"division":   st.Division,
	})
}

// UpdateStudent godoc
// PUT /api/v1/students/:id
// Replaces a record in place, keeping its id and position.
func (h *RosterHandler) UpdateStudent(c *gin.Context) {
	var p model.StudentIDParam
	if validator.BindURI(c, &p) != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.StudentDraftRequest
	if !h.bindDraft(c, &req) {
		return
	}

	st, err := h.rosterService.Update(c.Request.Context(), p.ID, req.Draft())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": st})
}

// DeleteStudent godoc
// DELETE /api/v1/students/:id
func (h *RosterHandler) DeleteStudent(c *gin.Context) {
	var p model.StudentIDParam
	if validator.BindURI(c, &p) != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	st, err := h.rosterService.Delete(c.Request.Context(), p.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": st, "message": "student deleted successfully"})
}

// UpdateAt godoc
// PUT /api/v1/roster/:index
// Replaces the record at a position.
func (h *RosterHandler) UpdateAt(c *gin.Context) {
	var p model.RosterIndexParam
	if validator.BindURI(c, &p) != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.StudentDraftRequest
	if !h.bindDraft(c, &req) {
		return
	}

	st, err := h.rosterService.UpdateAt(c.Request.Context(), p.Index, req.Draft())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"index": p.Index, "student": st})
}

// DeleteAt godoc
// DELETE /api/v1/roster/:index
// Removes the record at a position; later records shift down.
func (h *RosterHandler) DeleteAt(c *gin.Context) {
	var p model.RosterIndexParam
	if validator.BindURI(c, &p) != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	st, err := h.rosterService.DeleteAt(c.Request.Context(), p.Index)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": st, "message": "student deleted successfully"})
}

// bindDraft decodes the draft body. Decode failures are INVALID_PAYLOAD,
// binding rule failures are VALIDATION_ERROR; both are 400.
func (h *RosterHandler) bindDraft(c *gin.Context, req *model.StudentDraftRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		code := response.ErrInvalidPayload
		if validator.IsValidationError(err) {
			code = response.ErrValidation
		}
		response.FailWithFields(c, http.StatusBadRequest, code, validator.TranslateErrors(err))
		return false
	}
	return true
}

// fail maps service errors to HTTP responses.
func (h *RosterHandler) fail(c *gin.Context, err error) {
	var ve *roster.ValidationError
	var oor *roster.IndexOutOfRangeError

	switch {
	case errors.As(err, &ve):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrValidation, ve.Message,
			map[string]string{ve.Field: ve.Message})
	case errors.As(err, &oor):
		response.Fail(c, http.StatusNotFound, response.ErrIndexOutOfRange)
	case errors.Is(err, roster.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotLoaded):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrNotLoaded)
	case errors.Is(err, service.ErrDegraded):
		response.Fail(c, http.StatusConflict, response.ErrRosterUnreadable)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Roster request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
