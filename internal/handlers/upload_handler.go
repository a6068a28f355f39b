// -----------------------------------------------------------------------
// Upload Handler - Image and attachment file endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
)

// UploadHandler serves image and attachment upload routes. Files are read
// fully into memory before handing to the upload service, bounded by the
// configured size limits.
type UploadHandler struct {
	uploads interfaces.UploadService
	papers  interfaces.PaperService
	config  *common.UploadsConfig
	logger  arbor.ILogger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads interfaces.UploadService, papers interfaces.PaperService, config *common.UploadsConfig, logger arbor.ILogger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		papers:  papers,
		config:  config,
		logger:  logger,
	}
}

// UploadImageHandler handles POST /api/uploads/{paperId}/images
func (h *UploadHandler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	if _, err := h.papers.GetPaper(ctx, paperID); err != nil {
		WriteServiceError(w, err, "Failed to resolve paper")
		return
	}

	filename, data, ok := h.readUploadedFile(w, r, h.config.MaxImageSize)
	if !ok {
		return
	}

	uploaded, err := h.uploads.SaveImage(ctx, paperID, filename, data)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Str("filename", filename).Msg("Failed to store image")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteData(w, http.StatusCreated, uploaded)
}

// ServeImageHandler handles GET /api/uploads/images/{paperId}/{filename}
func (h *UploadHandler) ServeImageHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 3)
	filename := pathSegment(r, 4)
	if paperID == "" || filename == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID and filename are required")
		return
	}

	path, err := h.uploads.GetImagePath(ctx, paperID, filename)
	if err != nil {
		WriteServiceError(w, err, "Failed to resolve image")
		return
	}

	http.ServeFile(w, r, path)
}

// DeleteImageHandler handles DELETE /api/uploads/images/{paperId}/{filename}
func (h *UploadHandler) DeleteImageHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 3)
	filename := pathSegment(r, 4)
	if paperID == "" || filename == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID and filename are required")
		return
	}

	if err := h.uploads.DeleteImage(ctx, paperID, filename); err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Str("filename", filename).Msg("Failed to delete image")
		WriteServiceError(w, err, "Failed to delete image")
		return
	}

	WriteSuccess(w, "Image deleted")
}

// UploadAttachmentHandler handles POST /api/uploads/{paperId}/attachments.
// Attachments must be valid PDFs; the upload service rejects anything else.
func (h *UploadHandler) UploadAttachmentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	if _, err := h.papers.GetPaper(ctx, paperID); err != nil {
		WriteServiceError(w, err, "Failed to resolve paper")
		return
	}

	filename, data, ok := h.readUploadedFile(w, r, h.config.MaxAttachmentSize)
	if !ok {
		return
	}

	attachment, err := h.uploads.SaveAttachment(ctx, paperID, filename, data)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Str("filename", filename).Msg("Failed to store attachment")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteData(w, http.StatusCreated, attachment)
}

// readUploadedFile pulls the "file" part out of a multipart request. Writes
// the error response itself and reports false when the upload is unusable.
func (h *UploadHandler) readUploadedFile(w http.ResponseWriter, r *http.Request, maxSize int64) (string, []byte, bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Multipart field 'file' is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return "", nil, false
	}
	if int64(len(data)) > maxSize {
		WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds maximum size of %d bytes", maxSize))
		return "", nil, false
	}

	return header.Filename, data, true
}
