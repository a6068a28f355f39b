package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Search      SearchConfig      `toml:"search"`
	Translation TranslationConfig `toml:"translation"`
	Checklists  ChecklistsConfig  `toml:"checklists"`
	Backup      BackupConfig      `toml:"backup"`
	Uploads     UploadsConfig     `toml:"uploads"`
	WebSocket   WebSocketConfig   `toml:"websocket"`
	Logging     LoggingConfig     `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger     BadgerConfig     `toml:"badger"`
	Filesystem FilesystemConfig `toml:"filesystem"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type FilesystemConfig struct {
	Images      string `toml:"images"`
	Attachments string `toml:"attachments"`
	Backups     string `toml:"backups"`
}

// SearchConfig contains full-text search configuration
type SearchConfig struct {
	Enabled    bool    `toml:"enabled"`     // Disabled mode returns 503 from the search endpoint
	IndexPath  string  `toml:"index_path"`  // Bleve index directory
	TitleBoost float64 `toml:"title_boost"` // Score multiplier for title matches (default: 2.0)
	MaxResults int     `toml:"max_results"` // Hard cap on returned results (default: 100)
}

// TranslationConfig selects and configures the AI provider used to fill
// missing zh content slots. Translation is optional; with no API key the
// endpoint reports service unavailable.
type TranslationConfig struct {
	Provider  TranslationProvider `toml:"provider"` // "claude" or "gemini"
	Claude    ClaudeConfig        `toml:"claude"`
	Gemini    GeminiConfig        `toml:"gemini"`
	RateLimit string              `toml:"rate_limit"` // Minimum interval between requests (default: "1s")
}

// TranslationProvider represents the AI provider type
type TranslationProvider string

const (
	// TranslationProviderClaude uses Anthropic Claude API
	TranslationProviderClaude TranslationProvider = "claude"
	// TranslationProviderGemini uses Google Gemini API
	TranslationProviderGemini TranslationProvider = "gemini"
)

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (ANTHROPIC_API_KEY env also honored)
	Model       string  `toml:"model"`       // Model for translation (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for translation (default: "gemini-3-flash-preview")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
}

// ChecklistsConfig contains configuration for checklist seeding
type ChecklistsConfig struct {
	SeedFile string `toml:"seed_file"` // YAML file with the initial checklist tree, loaded when the store is empty
}

// BackupConfig contains configuration for scheduled library backups
type BackupConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule (default: daily at 03:00)
	Keep     int    `toml:"keep"`     // Number of backup files to retain (default: 7)
}

// UploadsConfig contains file upload limits
type UploadsConfig struct {
	MaxImageSize      int64    `toml:"max_image_size"`      // Bytes (default: 10MB)
	MaxAttachmentSize int64    `toml:"max_attachment_size"` // Bytes (default: 50MB)
	AllowedImageTypes []string `toml:"allowed_image_types"` // Extensions (default: png, jpg, jpeg, gif, svg, webp)
}

// WebSocketConfig contains configuration for WebSocket event streaming
type WebSocketConfig struct {
	MinLevel        string   `toml:"min_level"`        // Minimum log level to broadcast ("debug", "info", "warn", "error")
	ExcludePatterns []string `toml:"exclude_patterns"` // Log message patterns to exclude from broadcasting
	// Whitelist of event types to broadcast. Empty list allows all events.
	AllowedEvents []string `toml:"allowed_events"`
	// Throttle intervals for high-frequency events, event type to duration string.
	ThrottleIntervals map[string]string `toml:"throttle_intervals"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in neuink.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 3007,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
			Filesystem: FilesystemConfig{
				Images:      "./data/images",
				Attachments: "./data/attachments",
				Backups:     "./data/backups",
			},
		},
		Search: SearchConfig{
			Enabled:    true,
			IndexPath:  "./data/search.bleve",
			TitleBoost: 2.0,
			MaxResults: 100,
		},
		Translation: TranslationConfig{
			Provider: TranslationProviderClaude,
			Claude: ClaudeConfig{
				APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
				Model:       "claude-haiku-3-5-20241022",
				MaxTokens:   8192,
				Timeout:     "2m",
				Temperature: 0.2, // Low temperature keeps translations literal
			},
			Gemini: GeminiConfig{
				APIKey:      "",
				Model:       "gemini-3-flash-preview",
				Timeout:     "2m",
				Temperature: 0.2,
			},
			RateLimit: "1s",
		},
		Checklists: ChecklistsConfig{
			SeedFile: "./checklists.yml",
		},
		Backup: BackupConfig{
			Enabled:  true,
			Schedule: "0 3 * * *", // Daily at 03:00
			Keep:     7,
		},
		Uploads: UploadsConfig{
			MaxImageSize:      10 * 1024 * 1024,
			MaxAttachmentSize: 50 * 1024 * 1024,
			AllowedImageTypes: []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"},
		},
		WebSocket: WebSocketConfig{
			MinLevel: "info",
			ExcludePatterns: []string{
				"WebSocket client connected",
				"WebSocket client disconnected",
				"HTTP request",
				"HTTP response",
				"Publishing event",
			},
			// Empty AllowedEvents allows all events
			AllowedEvents: []string{},
			ThrottleIntervals: map[string]string{
				"content_saved": "500ms", // Editors autosave; cap broadcast frequency
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files.
// Later files override earlier files. Priority: CLI flags > Environment
// variables > Last config file > ... > First config file > Defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: NEUINK_ENV, fallback: GO_ENV)
	if env := os.Getenv("NEUINK_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("NEUINK_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("NEUINK_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("NEUINK_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if images := os.Getenv("NEUINK_IMAGES_DIR"); images != "" {
		config.Storage.Filesystem.Images = images
	}
	if attachments := os.Getenv("NEUINK_ATTACHMENTS_DIR"); attachments != "" {
		config.Storage.Filesystem.Attachments = attachments
	}
	if backups := os.Getenv("NEUINK_BACKUPS_DIR"); backups != "" {
		config.Storage.Filesystem.Backups = backups
	}

	// Search configuration
	if enabled := os.Getenv("NEUINK_SEARCH_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Search.Enabled = e
		}
	}
	if indexPath := os.Getenv("NEUINK_SEARCH_INDEX_PATH"); indexPath != "" {
		config.Search.IndexPath = indexPath
	}
	if titleBoost := os.Getenv("NEUINK_SEARCH_TITLE_BOOST"); titleBoost != "" {
		if tb, err := strconv.ParseFloat(titleBoost, 64); err == nil {
			config.Search.TitleBoost = tb
		}
	}
	if maxResults := os.Getenv("NEUINK_SEARCH_MAX_RESULTS"); maxResults != "" {
		if mr, err := strconv.Atoi(maxResults); err == nil {
			config.Search.MaxResults = mr
		}
	}

	// Translation configuration
	if provider := os.Getenv("NEUINK_TRANSLATION_PROVIDER"); provider != "" {
		config.Translation.Provider = TranslationProvider(provider)
	}
	if rateLimit := os.Getenv("NEUINK_TRANSLATION_RATE_LIMIT"); rateLimit != "" {
		config.Translation.RateLimit = rateLimit
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Translation.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("NEUINK_CLAUDE_API_KEY"); apiKey != "" {
		config.Translation.Claude.APIKey = apiKey // NEUINK_ prefix takes priority
	}
	if model := os.Getenv("NEUINK_CLAUDE_MODEL"); model != "" {
		config.Translation.Claude.Model = model
	}
	if maxTokens := os.Getenv("NEUINK_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Translation.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("NEUINK_CLAUDE_TIMEOUT"); timeout != "" {
		config.Translation.Claude.Timeout = timeout
	}
	if apiKey := os.Getenv("NEUINK_GEMINI_API_KEY"); apiKey != "" {
		config.Translation.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("NEUINK_GEMINI_MODEL"); model != "" {
		config.Translation.Gemini.Model = model
	}
	if timeout := os.Getenv("NEUINK_GEMINI_TIMEOUT"); timeout != "" {
		config.Translation.Gemini.Timeout = timeout
	}

	// Checklists configuration
	if seedFile := os.Getenv("NEUINK_CHECKLISTS_SEED_FILE"); seedFile != "" {
		config.Checklists.SeedFile = seedFile
	}

	// Backup configuration
	if enabled := os.Getenv("NEUINK_BACKUP_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Backup.Enabled = e
		}
	}
	if schedule := os.Getenv("NEUINK_BACKUP_SCHEDULE"); schedule != "" {
		config.Backup.Schedule = schedule
	}
	if keep := os.Getenv("NEUINK_BACKUP_KEEP"); keep != "" {
		if k, err := strconv.Atoi(keep); err == nil {
			config.Backup.Keep = k
		}
	}

	// Uploads configuration
	if maxImage := os.Getenv("NEUINK_UPLOADS_MAX_IMAGE_SIZE"); maxImage != "" {
		if m, err := strconv.ParseInt(maxImage, 10, 64); err == nil {
			config.Uploads.MaxImageSize = m
		}
	}
	if maxAttachment := os.Getenv("NEUINK_UPLOADS_MAX_ATTACHMENT_SIZE"); maxAttachment != "" {
		if m, err := strconv.ParseInt(maxAttachment, 10, 64); err == nil {
			config.Uploads.MaxAttachmentSize = m
		}
	}

	// WebSocket configuration
	if minLevel := os.Getenv("NEUINK_WEBSOCKET_MIN_LEVEL"); minLevel != "" {
		config.WebSocket.MinLevel = minLevel
	}
	if allowedEvents := os.Getenv("NEUINK_WEBSOCKET_ALLOWED_EVENTS"); allowedEvents != "" {
		events := []string{}
		for _, e := range splitString(allowedEvents, ",") {
			trimmed := trimSpace(e)
			if trimmed != "" {
				events = append(events, trimmed)
			}
		}
		if len(events) > 0 {
			config.WebSocket.AllowedEvents = events
		}
	}

	// Logging configuration
	if level := os.Getenv("NEUINK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("NEUINK_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("NEUINK_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range splitString(output, ",") {
			trimmed := trimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key with environment variable priority.
// Resolution order: environment variables -> config fallback -> error.
func ResolveAPIKey(name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"anthropic_api_key": {"NEUINK_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"gemini_api_key":    {"NEUINK_GEMINI_API_KEY", "GEMINI_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// Helper functions for string manipulation
func splitString(s, sep string) []string {
	result := []string{}
	start := 0
	for i := 0; i < len(s); i++ {
		if i+len(sep) <= len(s) && s[i:i+len(sep)] == sep {
			result = append(result, s[start:i])
			start = i + len(sep)
			i = start - 1
		}
	}
	result = append(result, s[start:])
	return result
}

func trimSpace(s string) string {
	start := 0
	end := len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t' || s[start] == '\n' || s[start] == '\r') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}

// ValidateBackupSchedule validates a cron schedule expression for the backup job
func ValidateBackupSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	// Backups rewrite the whole library; once a minute is never intentional
	if parts[0] == "*" {
		return fmt.Errorf("backup schedule must not run every minute")
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// DeepCloneConfig creates a deep copy of the Config struct
func DeepCloneConfig(c *Config) *Config {
	if c == nil {
		return nil
	}

	// Clone the config struct (shallow copy first)
	clone := *c

	// Deep clone slice and map fields to prevent shared memory
	if len(c.Logging.Output) > 0 {
		clone.Logging.Output = make([]string, len(c.Logging.Output))
		copy(clone.Logging.Output, c.Logging.Output)
	}

	if len(c.Uploads.AllowedImageTypes) > 0 {
		clone.Uploads.AllowedImageTypes = make([]string, len(c.Uploads.AllowedImageTypes))
		copy(clone.Uploads.AllowedImageTypes, c.Uploads.AllowedImageTypes)
	}

	if len(c.WebSocket.ExcludePatterns) > 0 {
		clone.WebSocket.ExcludePatterns = make([]string, len(c.WebSocket.ExcludePatterns))
		copy(clone.WebSocket.ExcludePatterns, c.WebSocket.ExcludePatterns)
	}

	if len(c.WebSocket.AllowedEvents) > 0 {
		clone.WebSocket.AllowedEvents = make([]string, len(c.WebSocket.AllowedEvents))
		copy(clone.WebSocket.AllowedEvents, c.WebSocket.AllowedEvents)
	}

	if len(c.WebSocket.ThrottleIntervals) > 0 {
		clone.WebSocket.ThrottleIntervals = make(map[string]string, len(c.WebSocket.ThrottleIntervals))
		for k, v := range c.WebSocket.ThrottleIntervals {
			clone.WebSocket.ThrottleIntervals[k] = v
		}
	}

	return &clone
}

// ParseDurationOr parses a duration string, returning the fallback on error
func ParseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
