// -----------------------------------------------------------------------
// Routes - Maps the REST surface onto the handlers
// -----------------------------------------------------------------------

package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// Paper catalog collection plus everything nested under a paper id
	mux.HandleFunc("/api/papers", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:  s.app.PaperHandler.ListPapersHandler,
			http.MethodPost: s.app.PaperHandler.CreatePaperHandler,
		})
	})
	mux.HandleFunc("/api/papers/", s.handlePaperRoutes)

	// Checklist tree and membership
	mux.HandleFunc("/api/checklists", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:  s.app.ChecklistHandler.GetTreeHandler,
			http.MethodPost: s.app.ChecklistHandler.CreateChecklistHandler,
		})
	})
	mux.HandleFunc("/api/checklists/", s.handleChecklistRoutes)

	// File uploads
	mux.HandleFunc("/api/uploads/", s.handleUploadRoutes)

	// Settings
	mux.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet: s.app.SettingsHandler.GetSettingsHandler,
			http.MethodPut: s.app.SettingsHandler.UpdateSettingsHandler,
		})
	})

	// System routes
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler)
	mux.HandleFunc("/api/shutdown", s.ShutdownHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.StatusHandler.NotFoundHandler)

	return mux
}

// handlePaperRoutes dispatches everything under /api/papers/. The fixed
// segments (search, stats, export, import) shadow paper ids, so those
// words can never be ids; uuid-based ids make collisions impossible.
func (s *Server) handlePaperRoutes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch len(parts) {
	case 3:
		// /api/papers/{id} and the fixed collection endpoints
		switch parts[2] {
		case "search":
			s.app.SearchHandler.SearchPapersHandler(w, r)
		case "stats":
			s.app.PaperHandler.StatsHandler(w, r)
		case "export":
			s.app.TransferHandler.ExportLibraryHandler(w, r)
		case "import":
			s.app.TransferHandler.ImportHandler(w, r)
		default:
			RouteByMethod(w, r, MethodRouter{
				http.MethodGet:    s.app.PaperHandler.GetPaperHandler,
				http.MethodPut:    s.app.PaperHandler.UpdatePaperHandler,
				http.MethodDelete: s.app.PaperHandler.DeletePaperHandler,
			})
		}

	case 4:
		// /api/papers/{id}/{resource}
		switch parts[3] {
		case "content":
			RouteByMethod(w, r, MethodRouter{
				http.MethodGet: s.app.ContentHandler.GetContentHandler,
				http.MethodPut: s.app.ContentHandler.SaveContentHandler,
			})
		case "progress":
			s.app.PaperHandler.UpdateProgressHandler(w, r)
		case "checklists":
			s.app.ChecklistHandler.PaperChecklistsHandler(w, r)
		case "notes":
			RouteByMethod(w, r, MethodRouter{
				http.MethodGet:  s.app.ContentHandler.ListNotesHandler,
				http.MethodPost: s.app.ContentHandler.CreateNoteHandler,
			})
		case "translate":
			s.app.TranslateHandler.TranslatePaperHandler(w, r)
		default:
			s.app.StatusHandler.NotFoundHandler(w, r)
		}

	case 5:
		// /api/papers/{id}/{resource}/{subId}
		switch parts[3] {
		case "notes":
			RouteByMethod(w, r, MethodRouter{
				http.MethodPut:    s.app.ContentHandler.UpdateNoteHandler,
				http.MethodDelete: s.app.ContentHandler.DeleteNoteHandler,
			})
		case "checklist-notes":
			RouteByMethod(w, r, MethodRouter{
				http.MethodGet: s.app.ContentHandler.GetChecklistNoteHandler,
				http.MethodPut: s.app.ContentHandler.SaveChecklistNoteHandler,
			})
		case "export":
			if parts[4] == "pdf" {
				s.app.TransferHandler.ExportPaperPDFHandler(w, r)
				return
			}
			s.app.StatusHandler.NotFoundHandler(w, r)
		default:
			s.app.StatusHandler.NotFoundHandler(w, r)
		}

	default:
		s.app.StatusHandler.NotFoundHandler(w, r)
	}
}

// handleChecklistRoutes dispatches /api/checklists/{id} and membership paths
func (s *Server) handleChecklistRoutes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 3:
		// /api/checklists/{id}
		RouteByMethod(w, r, MethodRouter{
			http.MethodPut:    s.app.ChecklistHandler.UpdateChecklistHandler,
			http.MethodDelete: s.app.ChecklistHandler.DeleteChecklistHandler,
		})

	case len(parts) == 5 && parts[3] == "papers":
		// /api/checklists/{id}/papers/{paperId}
		RouteByMethod(w, r, MethodRouter{
			http.MethodPost:   s.app.ChecklistHandler.AddPaperHandler,
			http.MethodDelete: s.app.ChecklistHandler.RemovePaperHandler,
		})

	default:
		s.app.StatusHandler.NotFoundHandler(w, r)
	}
}

// handleUploadRoutes dispatches image and attachment file routes
func (s *Server) handleUploadRoutes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 5 && parts[2] == "images":
		// /api/uploads/images/{paperId}/{filename}
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:    s.app.UploadHandler.ServeImageHandler,
			http.MethodDelete: s.app.UploadHandler.DeleteImageHandler,
		})

	case len(parts) == 4 && parts[3] == "images":
		// /api/uploads/{paperId}/images
		s.app.UploadHandler.UploadImageHandler(w, r)

	case len(parts) == 4 && parts[3] == "attachments":
		// /api/uploads/{paperId}/attachments
		s.app.UploadHandler.UploadAttachmentHandler(w, r)

	default:
		s.app.StatusHandler.NotFoundHandler(w, r)
	}
}
