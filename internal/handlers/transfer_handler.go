// -----------------------------------------------------------------------
// Transfer Handler - Import and export endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
)

// maxImportSize bounds uploaded import files (PDFs are the largest case)
const maxImportSize = 100 * 1024 * 1024

// TransferHandler serves file import and library export routes
type TransferHandler struct {
	importer interfaces.ImportService
	exporter interfaces.ExportService
	logger   arbor.ILogger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(importer interfaces.ImportService, exporter interfaces.ExportService, logger arbor.ILogger) *TransferHandler {
	return &TransferHandler{
		importer: importer,
		exporter: exporter,
		logger:   logger,
	}
}

// ImportHandler handles POST /api/papers/import. The file format is picked
// from the uploaded filename extension (json, md, pdf, html).
func (h *TransferHandler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize+1))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	if len(data) > maxImportSize {
		WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds maximum size of %d bytes", maxImportSize))
		return
	}

	result, err := h.importer.Import(ctx, header.Filename, data)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Import failed")
		WriteServiceError(w, err, "Import failed")
		return
	}

	WriteData(w, http.StatusCreated, result)
}

// ExportLibraryHandler handles GET /api/papers/export?format=json|xlsx.
// The response is the file itself, not the JSON envelope.
func (h *TransferHandler) ExportLibraryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	stamp := time.Now().Format("20060102")

	switch format {
	case "json":
		data, err := h.exporter.ExportLibraryJSON(ctx)
		if err != nil {
			h.logger.Error().Err(err).Msg("Library JSON export failed")
			WriteServiceError(w, err, "Export failed")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=neuink_library_%s.json", stamp))
		w.Write(data)

	case "xlsx":
		data, err := h.exporter.ExportLibraryXLSX(ctx)
		if err != nil {
			h.logger.Error().Err(err).Msg("Library XLSX export failed")
			WriteServiceError(w, err, "Export failed")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=neuink_library_%s.xlsx", stamp))
		w.Write(data)

	default:
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown export format %q", format))
	}
}

// ExportPaperPDFHandler handles GET /api/papers/{id}/export/pdf
func (h *TransferHandler) ExportPaperPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	data, err := h.exporter.ExportPaperPDF(ctx, paperID)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("PDF export failed")
		WriteServiceError(w, err, "PDF export failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", paperID))
	w.Write(data)
}
