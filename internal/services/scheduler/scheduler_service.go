// -----------------------------------------------------------------------
// Scheduler Service - Cron-driven background jobs, library backups built in
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
)

const (
	backupJobName  = "library-backup"
	backupFileGlob = "neuink_backup_*.json"
	backupTimeout  = 2 * time.Minute
)

// jobEntry represents a registered job with metadata
type jobEntry struct {
	name        string
	schedule    string
	description string
	handler     func() error
	enabled     bool
	cronID      cron.EntryID
	lastRun     *time.Time
	isRunning   bool
	lastError   string
}

// Service implements SchedulerService interface
type Service struct {
	exporter  interfaces.ExportService
	backupCfg *common.BackupConfig
	backupDir string
	cron      *cron.Cron
	logger    arbor.ILogger
	jobMu     sync.Mutex // Protects jobs map
	globalMu  sync.Mutex // Prevents concurrent job execution
	jobs      map[string]*jobEntry
	running   bool
}

// Compile-time assertion
var _ interfaces.SchedulerService = (*Service)(nil)

// NewService creates a new scheduler service
func NewService(
	exporter interfaces.ExportService,
	backupCfg *common.BackupConfig,
	backupDir string,
	logger arbor.ILogger,
) interfaces.SchedulerService {
	return &Service{
		exporter:  exporter,
		backupCfg: backupCfg,
		backupDir: backupDir,
		cron:      cron.New(),
		logger:    logger,
		jobs:      make(map[string]*jobEntry),
	}
}

// Start begins the scheduler, registering the backup job when enabled
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if s.backupCfg != nil && s.backupCfg.Enabled && s.exporter != nil {
		schedule := s.backupCfg.Schedule
		if schedule == "" {
			schedule = "0 3 * * *"
		}
		if !s.hasJob(backupJobName) {
			if err := s.registerJob(backupJobName, schedule,
				"Writes a JSON snapshot of the library to the backup directory", s.runBackup); err != nil {
				return fmt.Errorf("failed to register backup job: %w", err)
			}
		}
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}

	s.cron.Stop()
	s.running = false

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns true if scheduler is active
func (s *Service) IsRunning() bool {
	return s.running
}

// TriggerBackupNow manually triggers a library backup. It works even when
// scheduled backups are disabled.
func (s *Service) TriggerBackupNow() error {
	s.logger.Info().Msg("Manual backup trigger requested")

	if s.hasJob(backupJobName) {
		return s.executeJob(backupJobName)
	}
	return s.runBackup()
}

// RegisterJob registers a new job with the scheduler
func (s *Service) RegisterJob(name string, schedule string, handler func() error) error {
	return s.registerJob(name, schedule, "", handler)
}

func (s *Service) registerJob(name, schedule, description string, handler func() error) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	entry := &jobEntry{
		name:        name,
		schedule:    schedule,
		description: description,
		handler:     handler,
		enabled:     true,
	}

	cronID, err := s.cron.AddFunc(schedule, func() {
		if err := s.executeJob(name); err != nil {
			s.logger.Error().Err(err).Str("job_name", name).Msg("Scheduled job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add job to cron: %w", err)
	}

	entry.cronID = cronID
	s.jobs[name] = entry

	s.logger.Info().
		Str("job_name", name).
		Str("schedule", schedule).
		Msg("Job registered")

	return nil
}

func (s *Service) hasJob(name string) bool {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	_, exists := s.jobs[name]
	return exists
}

// executeJob runs a registered job, tracking status and recovering panics.
// The global mutex keeps jobs from running concurrently.
func (s *Service) executeJob(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			s.logger.Error().
				Str("job_name", name).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Panic recovered in job execution")

			s.jobMu.Lock()
			if entry, exists := s.jobs[name]; exists {
				entry.isRunning = false
				entry.lastError = err.Error()
			}
			s.jobMu.Unlock()
		}
	}()

	s.globalMu.Lock()
	defer s.globalMu.Unlock()

	s.jobMu.Lock()
	entry, exists := s.jobs[name]
	if !exists {
		s.jobMu.Unlock()
		return fmt.Errorf("job %s not found", name)
	}
	entry.isRunning = true
	now := time.Now()
	entry.lastRun = &now
	handler := entry.handler
	s.jobMu.Unlock()

	s.logger.Info().Str("job_name", name).Msg("Job execution started")
	jobErr := handler()

	s.jobMu.Lock()
	entry.isRunning = false
	if jobErr != nil {
		entry.lastError = jobErr.Error()
	} else {
		entry.lastError = ""
	}
	s.jobMu.Unlock()

	if jobErr != nil {
		return jobErr
	}
	s.logger.Info().Str("job_name", name).Msg("Job execution completed")
	return nil
}

// EnableJob enables a disabled job
func (s *Service) EnableJob(name string) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	entry, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	if entry.enabled {
		return nil
	}

	cronID, err := s.cron.AddFunc(entry.schedule, func() {
		if err := s.executeJob(name); err != nil {
			s.logger.Error().Err(err).Str("job_name", name).Msg("Scheduled job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add job to cron: %w", err)
	}

	entry.cronID = cronID
	entry.enabled = true

	s.logger.Info().Str("job_name", name).Msg("Job enabled")
	return nil
}

// DisableJob disables an enabled job
func (s *Service) DisableJob(name string) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	entry, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	if !entry.enabled {
		return nil
	}

	s.cron.Remove(entry.cronID)
	entry.enabled = false

	s.logger.Info().Str("job_name", name).Msg("Job disabled")
	return nil
}

// GetJobStatus returns the status of a specific job
func (s *Service) GetJobStatus(name string) (*interfaces.JobStatus, error) {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	entry, exists := s.jobs[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}
	return s.statusLocked(entry), nil
}

// GetAllJobStatuses returns all job statuses
func (s *Service) GetAllJobStatuses() map[string]*interfaces.JobStatus {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	statuses := make(map[string]*interfaces.JobStatus, len(s.jobs))
	for name, entry := range s.jobs {
		statuses[name] = s.statusLocked(entry)
	}
	return statuses
}

func (s *Service) statusLocked(entry *jobEntry) *interfaces.JobStatus {
	var nextRun *time.Time
	if entry.enabled {
		for _, cronEntry := range s.cron.Entries() {
			if cronEntry.ID == entry.cronID {
				next := cronEntry.Next
				nextRun = &next
				break
			}
		}
	}

	return &interfaces.JobStatus{
		Name:        entry.name,
		Enabled:     entry.enabled,
		Schedule:    entry.schedule,
		Description: entry.description,
		LastRun:     entry.lastRun,
		NextRun:     nextRun,
		IsRunning:   entry.isRunning,
		LastError:   entry.lastError,
	}
}

// runBackup exports the whole library to a timestamped JSON file and prunes
// old snapshots beyond the configured retention
func (s *Service) runBackup() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	data, err := s.exporter.ExportLibraryJSON(ctx)
	if err != nil {
		return fmt.Errorf("failed to export library: %w", err)
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	filename := fmt.Sprintf("neuink_backup_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.backupDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	s.logger.Info().
		Str("path", path).
		Int("size", len(data)).
		Msg("Library backup written")

	if err := s.pruneBackups(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to prune old backups")
	}
	return nil
}

// pruneBackups deletes the oldest snapshots beyond the retention count.
// The timestamped filenames sort lexicographically by age.
func (s *Service) pruneBackups() error {
	keep := 7
	if s.backupCfg != nil && s.backupCfg.Keep > 0 {
		keep = s.backupCfg.Keep
	}

	matches, err := filepath.Glob(filepath.Join(s.backupDir, backupFileGlob))
	if err != nil {
		return err
	}
	if len(matches) <= keep {
		return nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	for _, stale := range matches[keep:] {
		if !strings.HasPrefix(filepath.Base(stale), "neuink_backup_") {
			continue
		}
		if err := os.Remove(stale); err != nil {
			s.logger.Warn().Err(err).Str("path", stale).Msg("Failed to remove old backup")
			continue
		}
		s.logger.Debug().Str("path", stale).Msg("Old backup removed")
	}
	return nil
}
