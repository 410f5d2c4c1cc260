// replace.go handles the JSON API for text replacement (PRT-12).
//
// POST /api/v1/replace/search — Upload a PDF, list matching instances
// POST /api/v1/replace        — Upload a PDF, download the modified bytes
//
// Both endpoints take a multipart form: a "file" part plus "search" and
// "replace" text fields. They are stateless — unlike the web form they
// never touch the session store.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
	"github.com/Shimizu-Technology/pdf-replace/internal/services/docinfo"
	"github.com/Shimizu-Technology/pdf-replace/internal/services/replace"
)

// readPDFUpload reads and validates the multipart "file" part. On failure
// it writes an ErrorResponse and returns ok=false; the caller just returns.
func (h *Handler) readPDFUpload(c *gin.Context) (filename string, data []byte, ok bool) {
	// Limit request body size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Config.MaxUploadBytes())

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: fmt.Sprintf("No PDF file provided. Upload a file with the field name 'file'. Max size: %dMB.", h.Config.MaxUploadMB),
			Code:    http.StatusBadRequest,
		})
		return "", nil, false
	}
	defer file.Close()

	// Validate file extension
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_file_type",
			Message: fmt.Sprintf("Unsupported file format '%s'. Only .pdf files are accepted.", ext),
			Code:    http.StatusBadRequest,
		})
		return "", nil, false
	}

	// Go Pattern: io.ReadAll reads the entire reader into a byte slice.
	// The PDF library needs random access, so streaming isn't an option.
	data, err = io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "read_error",
			Message: "Failed to read uploaded file",
			Code:    http.StatusBadRequest,
		})
		return "", nil, false
	}

	// Validate PDF magic bytes
	if !docinfo.IsPDF(data) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_pdf",
			Message: "The uploaded file does not appear to be a valid PDF",
			Code:    http.StatusBadRequest,
		})
		return "", nil, false
	}

	return header.Filename, data, true
}

// bindReplaceRequest reads the search/replace form fields. An absent or
// empty replace field falls back to the default; an empty search is an
// input error.
func bindReplaceRequest(c *gin.Context) (models.ReplaceRequest, bool) {
	var req models.ReplaceRequest
	// Go Pattern: ShouldBind picks the binder from the Content-Type —
	// multipart here — and fills the struct via its `form` tags.
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid form data: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return req, false
	}
	if req.Search == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Form field 'search' must not be empty",
			Code:    http.StatusBadRequest,
		})
		return req, false
	}
	if req.Replace == "" {
		req.Replace = replace.DefaultReplace
	}
	return req, true
}

// SearchInstances lists every occurrence of the search text with its
// inferred font size, color and sampled background.
// POST /api/v1/replace/search
func (h *Handler) SearchInstances(c *gin.Context) {
	filename, data, ok := h.readPDFUpload(c)
	if !ok {
		return
	}
	req, ok := bindReplaceRequest(c)
	if !ok {
		return
	}

	result, err := h.Replace.FindInstances(data, req.Search)
	if err != nil {
		h.replaceError(c, "search_failed", filename, err)
		return
	}

	resp := models.SearchResponse{
		Search:    result.Search,
		Count:     len(result.Instances),
		Instances: result.Instances,
		Warnings:  result.Warnings,
	}

	// Document info is display garnish — keep going without it.
	if info, err := docinfo.Inspect(data); err != nil {
		log.Printf("Document inspection failed for %s: %v", filename, err)
	} else {
		resp.Document = &models.DocumentInfo{
			Filename:  filepath.Base(filename),
			PageCount: info.PageCount,
			WordCount: info.WordCount,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ReplaceText paints over every occurrence of the search text, redraws
// the replacement and returns the modified document.
// POST /api/v1/replace
//
// Response headers are set for file download:
//   - Content-Type: application/pdf
//   - Content-Disposition: attachment with the derived filename
//   - X-Replacement-Count: number of occurrences replaced
func (h *Handler) ReplaceText(c *gin.Context) {
	filename, data, ok := h.readPDFUpload(c)
	if !ok {
		return
	}
	req, ok := bindReplaceRequest(c)
	if !ok {
		return
	}

	result, err := h.Replace.Replace(data, req.Search, req.Replace)
	if err != nil {
		h.replaceError(c, "replace_failed", filename, err)
		return
	}

	c.Header("X-Replacement-Count", strconv.Itoa(result.Count))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, outputFilename(filename)))
	c.Data(http.StatusOK, "application/pdf", result.Output)
}

// replaceError maps a service error to an ErrorResponse. Input problems
// are the client's fault (400); anything else is ours (500).
func (h *Handler) replaceError(c *gin.Context, code, filename string, err error) {
	switch {
	case errors.Is(err, replace.ErrEmptySearch):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Form field 'search' must not be empty",
			Code:    http.StatusBadRequest,
		})
	case errors.Is(err, replace.ErrNotPDF):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_pdf",
			Message: "The uploaded file does not appear to be a valid PDF",
			Code:    http.StatusBadRequest,
		})
	default:
		log.Printf("Replacement failed for %s: %v", filename, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   code,
			Message: "PDF processing failed: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
}
