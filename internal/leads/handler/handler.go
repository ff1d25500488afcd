package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"leadpilot_backend/internal/leads/service"
	"leadpilot_backend/internal/leads/transport"
	"leadpilot_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler serves the authenticated dashboard endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the dashboard routes on an authenticated group.
// Status changes and notes are separate calls so one request never mixes
// the two mutations.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/leads", h.list)
	group.GET("/leads/counts", h.counts)
	group.GET("/leads/:id", h.get)
	group.GET("/leads/:id/files/:index/url", h.fileURL)
	group.POST("/leads/:id/status", h.updateStatus)
	group.POST("/leads/:id/notes", h.addNote)
}

// scope returns the caller's company scope: contractors see their own
// company only, admins see everything.
func scope(c *gin.Context) (*uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return nil, false
	}
	if identity.HasRole("admin") {
		return nil, true
	}
	return identity.CompanyID(), true
}

func (h *Handler) list(c *gin.Context) {
	companyID, ok := scope(c)
	if !ok {
		return
	}

	query := service.ListQuery{
		CompanyID: companyID,
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
	}
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	var err error
	if query.Since, err = parseTimeParam(c.Query("since")); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid since parameter", nil)
		return
	}
	if query.Until, err = parseTimeParam(c.Query("until")); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid until parameter", nil)
		return
	}

	leads, err := h.svc.List(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, transport.FromDomain(lead))
	}
	httpkit.OK(c, gin.H{"leads": responses})
}

func (h *Handler) get(c *gin.Context) {
	companyID, ok := scope(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), id, companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromDomain(lead))
}

// parseTimeParam accepts an RFC 3339 timestamp or a plain date.
func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", value)
}

func (h *Handler) fileURL(c *gin.Context) {
	companyID, ok := scope(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid file index", nil)
		return
	}

	presigned, err := h.svc.FileDownloadURL(c.Request.Context(), id, index, companyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}

func (h *Handler) counts(c *gin.Context) {
	companyID, ok := scope(c)
	if !ok {
		return
	}

	counts, err := h.svc.Counts(c.Request.Context(), companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.CountsResponse{
		Total:     counts.Total,
		NewLast24: counts.NewLast24,
		ByStatus:  counts.ByStatus,
	})
}

func (h *Handler) updateStatus(c *gin.Context) {
	companyID, ok := scope(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.UpdateStatus(c.Request.Context(), id, req.Status, companyID)) {
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}

func (h *Handler) addNote(c *gin.Context) {
	companyID, ok := scope(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.AddNote(c.Request.Context(), id, req.Text, companyID)) {
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}
