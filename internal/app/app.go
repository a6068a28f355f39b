// -----------------------------------------------------------------------
// App - Builds and owns every component of the NeuInk server
// -----------------------------------------------------------------------

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/handlers"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
	"github.com/ternarybob/neuink/internal/services/checklists"
	"github.com/ternarybob/neuink/internal/services/content"
	"github.com/ternarybob/neuink/internal/services/events"
	"github.com/ternarybob/neuink/internal/services/exporter"
	"github.com/ternarybob/neuink/internal/services/importer"
	"github.com/ternarybob/neuink/internal/services/papers"
	"github.com/ternarybob/neuink/internal/services/pdf"
	"github.com/ternarybob/neuink/internal/services/scheduler"
	"github.com/ternarybob/neuink/internal/services/search"
	"github.com/ternarybob/neuink/internal/services/translator"
	"github.com/ternarybob/neuink/internal/services/uploads"
	"github.com/ternarybob/neuink/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Domain services
	EventService       interfaces.EventService
	SearchService      interfaces.SearchService
	PDFExtractor       interfaces.PDFExtractor
	UploadService      interfaces.UploadService
	PaperService       interfaces.PaperService
	ContentService     interfaces.ContentService
	ChecklistService   interfaces.ChecklistService
	ImportService      interfaces.ImportService
	ExportService      interfaces.ExportService
	TranslationService interfaces.TranslationService
	SchedulerService   interfaces.SchedulerService

	// HTTP handlers
	WSHandler        *handlers.WebSocketHandler
	PaperHandler     *handlers.PaperHandler
	ContentHandler   *handlers.ContentHandler
	ChecklistHandler *handlers.ChecklistHandler
	SearchHandler    *handlers.SearchHandler
	TransferHandler  *handlers.TransferHandler
	TranslateHandler *handlers.TranslateHandler
	UploadHandler    *handlers.UploadHandler
	SettingsHandler  *handlers.SettingsHandler
	StatusHandler    *handlers.StatusHandler

	wsLogWriter *handlers.WebSocketLogWriter
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize storage
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// WebSocket handler is created before the services so startup log
	// messages already stream to early clients through the log bridge
	app.WSHandler = handlers.NewWebSocketHandler(app.Logger)
	app.wsLogWriter = handlers.NewWebSocketLogWriter(app.WSHandler, &cfg.WebSocket)
	app.wsLogWriter.Start()
	app.Logger.SetChannel("websocket", app.wsLogWriter.GetChannel())

	// Event bus carries library change notifications between services,
	// the WebSocket bridge and anything else that subscribes
	app.EventService = events.NewService(app.Logger)

	// Initialize services
	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize handlers
	if err := app.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	logger.Info().
		Bool("search_enabled", app.SearchService.Enabled()).
		Bool("translation_available", app.TranslationService.Available()).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger) and seeds defaults
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	// Seed default settings. Existing keys are never overwritten, so user
	// preferences survive restarts and upgrades.
	ctx := context.Background()
	settings := storageManager.SettingsStorage()
	seeded := 0
	for _, def := range common.GetDefaultSettings() {
		if _, err := settings.Get(ctx, def.Key); err == nil {
			continue
		} else if !errors.Is(err, interfaces.ErrNotFound) {
			a.Logger.Warn().Err(err).Str("key", def.Key).Msg("Failed to check default setting")
			continue
		}

		if err := settings.Set(ctx, &models.Setting{
			Key:         def.Key,
			Value:       def.Value,
			Description: def.Description,
		}); err != nil {
			a.Logger.Warn().Err(err).Str("key", def.Key).Msg("Failed to seed default setting")
			continue
		}
		seeded++
	}
	if seeded > 0 {
		a.Logger.Debug().Int("count", seeded).Msg("Default settings seeded")
	}

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	var err error

	// 1. Search index. The factory falls back to a no-op service when
	// search is disabled; the endpoint then reports 503.
	a.SearchService, err = search.NewSearchService(
		a.Config,
		a.StorageManager.PaperStorage(),
		a.StorageManager.ContentStorage(),
		a.Logger,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize search service: %w", err)
	}

	// 2. PDF extractor, shared by imports and attachment validation
	a.PDFExtractor = pdf.NewExtractor(a.Logger)

	// 3. Upload store (images, attachments) on the local filesystem
	a.UploadService, err = uploads.NewService(a.Config, a.PDFExtractor, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize upload service: %w", err)
	}

	// 4. Paper catalog. Deleting a paper cascades into content, checklist
	// membership, uploads and the search index, so those come first.
	a.PaperService = papers.NewService(
		a.StorageManager,
		a.UploadService,
		a.SearchService,
		a.EventService,
		a.Logger,
	)

	// 5. Content documents (save pipeline runs the numbering pass)
	a.ContentService = content.NewService(
		a.StorageManager,
		a.SearchService,
		a.EventService,
		a.Logger,
	)

	// 6. Checklist tree, seeded from the YAML file on first run
	a.ChecklistService = checklists.NewService(a.StorageManager, a.EventService, a.Logger)
	if seedFile := a.Config.Checklists.SeedFile; seedFile != "" {
		if err := a.ChecklistService.Seed(context.Background(), seedFile); err != nil {
			a.Logger.Warn().Err(err).Str("path", seedFile).Msg("Failed to seed checklists")
		}
	}

	// 7. Import and export funnel through the catalog and content services
	a.ImportService = importer.NewService(
		a.PaperService,
		a.ContentService,
		a.PDFExtractor,
		a.UploadService,
		a.EventService,
		a.Logger,
	)
	a.ExportService = exporter.NewService(
		a.PaperService,
		a.ContentService,
		a.UploadService,
		a.Logger,
	)

	// 8. Translation. A missing API key disables the service rather than
	// failing startup; the endpoint then reports 503.
	provider, err := translator.NewProviderFromConfig(&a.Config.Translation, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize translation provider: %w", err)
	}
	a.TranslationService = translator.NewService(
		a.ContentService,
		provider,
		&a.Config.Translation,
		a.Logger,
	)

	// 9. Scheduler with the periodic library backup job
	a.SchedulerService = scheduler.NewService(
		a.ExportService,
		&a.Config.Backup,
		a.Config.Storage.Filesystem.Backups,
		a.Logger,
	)
	if err := a.SchedulerService.Start(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to start scheduler service")
	}

	// Badger only reclaims value log space when asked, so compact nightly
	if err := a.SchedulerService.RegisterJob("storage-gc", "30 3 * * *", a.StorageManager.RunGC); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to register storage gc job")
	}

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() error {
	// Bridge library change events onto connected WebSocket clients,
	// applying the configured whitelist and throttling
	_ = handlers.NewEventSubscriber(a.WSHandler, a.EventService, a.Logger, &a.Config.WebSocket)

	a.PaperHandler = handlers.NewPaperHandler(a.PaperService, a.Logger)
	a.ContentHandler = handlers.NewContentHandler(a.ContentService, a.Logger)
	a.ChecklistHandler = handlers.NewChecklistHandler(a.ChecklistService, a.Logger)
	a.SearchHandler = handlers.NewSearchHandler(a.SearchService, a.Logger)
	a.TransferHandler = handlers.NewTransferHandler(a.ImportService, a.ExportService, a.Logger)
	a.TranslateHandler = handlers.NewTranslateHandler(a.TranslationService, a.Logger)
	a.UploadHandler = handlers.NewUploadHandler(a.UploadService, a.PaperService, &a.Config.Uploads, a.Logger)
	a.SettingsHandler = handlers.NewSettingsHandler(a.StorageManager.SettingsStorage(), a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(
		a.StorageManager,
		a.SearchService,
		a.TranslationService,
		a.SchedulerService,
		a.Logger,
	)

	return nil
}

// Close closes all application resources
func (a *App) Close() error {
	// Stop scheduler first so no backup starts mid-shutdown
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	// Release the translation provider
	if a.TranslationService != nil {
		if err := a.TranslationService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close translation service")
		}
	}

	// Stop the log bridge before the event bus so late log lines do not
	// race the closing WebSocket clients
	if a.wsLogWriter != nil {
		if err := a.wsLogWriter.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close WebSocket log writer")
		}
	}

	// Close event service
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	// Close the search index
	if a.SearchService != nil {
		if err := a.SearchService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close search service")
		}
	}

	// Close storage last
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
