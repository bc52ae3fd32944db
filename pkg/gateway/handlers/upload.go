package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/docs"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/store"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/config"
)

// UploadHandler accepts a multipart POST with a PDF resume file and a
// job description text field, extracts the resume text, and stores both
// for the context retriever.
type UploadHandler struct {
	Config config.Config
	Store  store.DocumentStore
	Logger *slog.Logger
}

func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Slack on top of the file limit covers multipart framing and the
	// job description field.
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.UploadMaxBytes+1<<20)
	if err := r.ParseMultipartForm(h.Config.UploadMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10MB.")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing resume file")
		return
	}
	defer file.Close()

	if !isPDFUpload(header) {
		writeMessage(w, http.StatusBadRequest, "Only PDF files are supported for resume upload")
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.Config.UploadMaxBytes+1))
	if err != nil {
		h.logger().Error("read resume upload", "error", err)
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf("Upload failed: %v", err))
		return
	}
	if int64(len(content)) > h.Config.UploadMaxBytes {
		writeMessage(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10MB.")
		return
	}

	resumeText, err := docs.ExtractPDFText(content)
	if err != nil {
		if errors.Is(err, docs.ErrTooLittleText) {
			writeMessage(w, http.StatusUnprocessableEntity, "Could not extract sufficient text from PDF. Please ensure the PDF contains readable text (not just images).")
			return
		}
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid PDF: %v", err))
		return
	}

	jdText, err := docs.ValidateText(r.FormValue("job_description"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid job description: %v", err))
		return
	}

	ctx := r.Context()
	if err := h.Store.Save(ctx, store.Document{
		Kind:     store.KindResume,
		Text:     resumeText,
		Filename: header.Filename,
	}); err != nil {
		h.logger().Error("store resume", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to store documents")
		return
	}
	if err := h.Store.Save(ctx, store.Document{
		Kind: store.KindJobDescription,
		Text: jdText,
	}); err != nil {
		h.logger().Error("store job description", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to store documents")
		return
	}

	h.logger().Info("documents uploaded",
		"resume_filename", header.Filename,
		"resume_chars", len(resumeText),
		"job_description_chars", len(jdText),
	)
	writeMessage(w, http.StatusOK, "Documents uploaded successfully")
}

func (h UploadHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// isPDFUpload checks the part's declared content type, falling back to
// the filename extension for clients that send application/octet-stream.
func isPDFUpload(header *multipart.FileHeader) bool {
	ct := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if ct == "application/pdf" {
		return true
	}
	if ct == "" || ct == "application/octet-stream" {
		return strings.HasSuffix(strings.ToLower(header.Filename), ".pdf")
	}
	return false
}
