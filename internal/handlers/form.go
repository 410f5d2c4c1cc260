// form.go serves the interactive page: upload a PDF, see where the
// search text appears, preview the repainted page, download the result
// (PRT-10).
//
// GET  / — the form, re-rendering the session's results when it has any
// POST / — run search + replacement, store everything in the session,
//          render the results inline
//
// Unlike the JSON API these handlers answer with HTML: validation
// problems come back as an inline warning on the form, not an
// ErrorResponse body.
package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-replace/internal/middleware"
	"github.com/Shimizu-Technology/pdf-replace/internal/models"
	"github.com/Shimizu-Technology/pdf-replace/internal/services/docinfo"
	"github.com/Shimizu-Technology/pdf-replace/internal/services/replace"
	"github.com/Shimizu-Technology/pdf-replace/internal/session"
)

// Go Pattern: The `//go:embed` directive tells the compiler to include
// the file contents in the binary. The template is parsed once at init;
// a malformed template fails the build of the page, not a request.
//
//go:embed templates/index.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// formView is everything templates/index.html needs. Formatting that
// takes more than a printf verb (banners, the download name) is
// computed here, not in the template.
type formView struct {
	Search       string
	Replace      string
	Error        string // inline warning above the form, empty when fine
	HasResults   bool
	Found        bool // at least one instance, so preview + download exist
	Banner       string
	Document     *models.DocumentInfo
	Instances    []models.TextInstance
	Warnings     []string
	DownloadName string
}

// ShowForm renders the page. A returning browser with a live session
// sees its previous results; everyone else sees the blank form with
// the default search terms filled in.
// GET /
func (h *Handler) ShowForm(c *gin.Context) {
	if sess, ok := h.currentSession(c); ok && sess.HasResults() {
		h.renderForm(c, http.StatusOK, h.resultView(sess))
		return
	}
	h.renderForm(c, http.StatusOK, formView{
		Search:  replace.DefaultSearch,
		Replace: replace.DefaultReplace,
	})
}

// SubmitForm runs the whole pipeline: read the upload (or reuse the
// session's), list instances, replace, and render the results page.
// POST /
//
// The session is only written on success — a rejected submission leaves
// whatever the browser had before untouched.
func (h *Handler) SubmitForm(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Config.MaxUploadBytes())

	var req models.ReplaceRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusBadRequest, formView{
			Search:  replace.DefaultSearch,
			Replace: replace.DefaultReplace,
			Error:   "Invalid form data: " + err.Error(),
		})
		return
	}
	if req.Replace == "" {
		req.Replace = replace.DefaultReplace
	}
	view := formView{Search: req.Search, Replace: req.Replace}

	// Reuse the previous upload when the form arrives without a file,
	// so changing the search text doesn't force a re-upload.
	sess, ok := h.currentSession(c)
	if !ok {
		sess = session.Session{ID: h.Store.NewID()}
	}

	filename, data, errMsg := h.formUpload(c)
	switch {
	case errMsg != "":
		view.Error = errMsg
		h.renderForm(c, http.StatusBadRequest, view)
		return
	case data != nil:
		sess.Filename = filename
		sess.Original = data
	case sess.Original == nil:
		view.Error = "Upload a PDF file to get started"
		h.renderForm(c, http.StatusBadRequest, view)
		return
	}

	if req.Search == "" {
		view.Error = "Text to find must not be empty"
		h.renderForm(c, http.StatusBadRequest, view)
		return
	}

	found, err := h.Replace.FindInstances(sess.Original, req.Search)
	if err != nil {
		log.Printf("Search failed for %s: %v", sess.Filename, err)
		view.Error = "PDF processing failed: " + err.Error()
		h.renderForm(c, http.StatusInternalServerError, view)
		return
	}

	sess.Search = req.Search
	sess.Replace = req.Replace
	sess.Instances = found.Instances
	sess.Warnings = found.Warnings
	sess.Modified = nil
	sess.Count = 0

	// Document info is display garnish — keep going without it.
	if info, err := docinfo.Inspect(sess.Original); err != nil {
		log.Printf("Document inspection failed for %s: %v", sess.Filename, err)
		sess.Document = nil
	} else {
		sess.Document = &models.DocumentInfo{
			Filename:  filepath.Base(sess.Filename),
			PageCount: info.PageCount,
			WordCount: info.WordCount,
		}
	}

	if len(found.Instances) > 0 {
		// The replacer samples the same regions the search just did, so
		// its warnings duplicate found.Warnings; we keep the first set.
		result, err := h.Replace.Replace(sess.Original, req.Search, req.Replace)
		if err != nil {
			log.Printf("Replacement failed for %s: %v", sess.Filename, err)
			view.Error = "PDF processing failed: " + err.Error()
			h.renderForm(c, http.StatusInternalServerError, view)
			return
		}
		sess.Modified = result.Output
		sess.Count = result.Count
	}

	h.Store.Save(sess)
	if err := middleware.SetSessionCookie(c, sess.ID, h.Config.SessionSecret, h.Config.SessionTTL); err != nil {
		// The page still renders; the browser just won't keep the results.
		log.Printf("Session cookie failed: %v", err)
	}
	h.renderForm(c, http.StatusOK, h.resultView(sess))
}

// formUpload reads the optional "file" part of the submitted form.
// Three outcomes: a validated upload (data non-nil), no file attached
// (everything zero — browsers send an empty part when the input is
// left blank), or a user-readable problem in errMsg.
func (h *Handler) formUpload(c *gin.Context) (filename string, data []byte, errMsg string) {
	file, header, err := c.Request.FormFile("file")
	if err != nil || header.Filename == "" {
		return "", nil, ""
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		return "", nil, fmt.Sprintf("Unsupported file format '%s'. Only .pdf files are accepted.", ext)
	}

	data, err = io.ReadAll(file)
	if err != nil {
		return "", nil, "Failed to read uploaded file"
	}
	if !docinfo.IsPDF(data) {
		return "", nil, "The uploaded file does not appear to be a valid PDF"
	}
	return header.Filename, data, ""
}

// resultView projects a session's stored results into the view.
func (h *Handler) resultView(sess session.Session) formView {
	view := formView{
		Search:     sess.Search,
		Replace:    sess.Replace,
		HasResults: true,
		Found:      len(sess.Instances) > 0,
		Document:   sess.Document,
		Instances:  sess.Instances,
		Warnings:   sess.Warnings,
	}
	if view.Found {
		view.Banner = fmt.Sprintf("✓ Found %d instance(s) of '%s'", len(sess.Instances), sess.Search)
		view.DownloadName = outputFilename(sess.Filename)
	} else {
		view.Banner = fmt.Sprintf("No instances of '%s' found in the PDF.", sess.Search)
	}
	return view
}

// renderForm writes the page. The template is embedded and parsed at
// init, so execution can only fail mid-write; by then the status is
// out and all we can do is log.
func (h *Handler) renderForm(c *gin.Context, status int, view formView) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := formTemplate.Execute(c.Writer, view); err != nil {
		log.Printf("Form template failed: %v", err)
	}
}
