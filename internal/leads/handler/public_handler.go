// Package handler exposes the leads module over HTTP: the public intake
// endpoint and the authenticated dashboard endpoints.
package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"leadpilot_backend/internal/leads/domain"
	"leadpilot_backend/internal/leads/service"
	"leadpilot_backend/internal/leads/transport"
	"leadpilot_backend/platform/httpkit"
	"leadpilot_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompanyResolver maps a public company slug to its id. Implemented by the
// companies module.
type CompanyResolver interface {
	ResolveSlug(ctx context.Context, slug string) (*uuid.UUID, error)
}

// PublicHandler serves the unauthenticated intake endpoint.
type PublicHandler struct {
	svc       *service.Service
	companies CompanyResolver
	val       *validator.Validator
}

func NewPublic(svc *service.Service, companies CompanyResolver, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, companies: companies, val: val}
}

// RegisterRoutes mounts the public intake route.
func (h *PublicHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/leads", h.submit)
}

// submit accepts either multipart form data with raw files, or a JSON body
// with pre-uploaded file references. Either way the customer gets an
// immediate confirmation once the lead row is committed.
func (h *PublicHandler) submit(c *gin.Context) {
	var req transport.SubmitRequest
	var files []service.Upload
	var cleanup func()
	var err error

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req, files, cleanup, err = h.parseMultipart(c)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	companyID, err := h.resolveCompany(c.Request.Context(), req.Company)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	fileRefs := make([]domain.FileRef, 0, len(req.FileURLs))
	for _, ref := range req.FileURLs {
		fileRefs = append(fileRefs, ref.ToDomain())
	}

	result, err := h.svc.Submit(c.Request.Context(), service.SubmitInput{
		CompanyID:       companyID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Category:        req.Category,
		Description:     req.Description,
		ConfirmNoPhotos: req.ConfirmNoPhotos,
		Files:           files,
		FileRefs:        fileRefs,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.SubmitResponse{
		Success:       true,
		LeadID:        result.LeadID,
		FilesUploaded: result.FilesUploaded,
	})
}

// parseMultipart extracts the form fields and file parts. Large parts spill
// to temp files, so the returned readers must stay open until Submit has
// consumed them; the caller runs cleanup once the request is handled.
func (h *PublicHandler) parseMultipart(c *gin.Context) (transport.SubmitRequest, []service.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return transport.SubmitRequest{}, nil, nil, err
	}

	req := transport.SubmitRequest{
		Company:         formValue(form.Value, "company"),
		Name:            formValue(form.Value, "name"),
		Email:           formValue(form.Value, "email"),
		Phone:           formValue(form.Value, "phone"),
		Category:        formValue(form.Value, "category"),
		Description:     formValue(form.Value, "description"),
		ConfirmNoPhotos: formValue(form.Value, "confirmNoPhotos") == "true",
	}

	var files []service.Upload
	var opened []multipart.File
	for _, fileHeader := range form.File["files"] {
		file, err := fileHeader.Open()
		if err != nil {
			// A broken part is dropped; the rest of the submission proceeds.
			continue
		}
		opened = append(opened, file)

		files = append(files, service.Upload{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Reader:      file,
		})
	}

	cleanup := func() {
		for _, file := range opened {
			_ = file.Close()
		}
	}
	return req, files, cleanup, nil
}

// resolveCompany maps an optional slug to a company id. An unknown slug is
// tolerated: the lead is stored unscoped rather than rejected.
func (h *PublicHandler) resolveCompany(ctx context.Context, slug string) (*uuid.UUID, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" || h.companies == nil {
		return nil, nil
	}
	return h.companies.ResolveSlug(ctx, slug)
}

func formValue(values map[string][]string, key string) string {
	if list, ok := values[key]; ok && len(list) > 0 {
		return list[0]
	}
	return ""
}
