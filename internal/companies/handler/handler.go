// Package handler exposes the companies module over HTTP: admin
// provisioning plus the public branding lookup.
package handler

import (
	"net/http"

	"leadpilot_backend/internal/companies/service"
	"leadpilot_backend/internal/companies/transport"
	"leadpilot_backend/platform/httpkit"
	"leadpilot_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterAdminRoutes mounts the provisioning routes.
func (h *Handler) RegisterAdminRoutes(group *gin.RouterGroup) {
	group.POST("/companies", h.create)
	group.GET("/companies", h.list)
}

// RegisterPublicRoutes mounts the intake-form branding route.
func (h *Handler) RegisterPublicRoutes(group *gin.RouterGroup) {
	group.GET("/companies/:slug", h.branding)
}

func (h *Handler) create(c *gin.Context) {
	var req transport.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	company, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		Name:            req.Name,
		Slug:            req.Slug,
		Email:           req.Email,
		Phone:           req.Phone,
		ContractorName:  req.ContractorName,
		ContractorEmail: req.ContractorEmail,
		Password:        req.Password,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.FromCompany(company))
}

func (h *Handler) list(c *gin.Context) {
	companies, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		responses = append(responses, transport.FromCompany(company))
	}
	httpkit.OK(c, gin.H{"companies": responses})
}

func (h *Handler) branding(c *gin.Context) {
	company, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.BrandingResponse{
		Name: company.Name,
		Slug: company.Slug,
	})
}
