package scheduler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
	contentsvc "github.com/ternarybob/neuink/internal/services/content"
	"github.com/ternarybob/neuink/internal/services/exporter"
	paperssvc "github.com/ternarybob/neuink/internal/services/papers"
	"github.com/ternarybob/neuink/internal/storage/badger"
)

func newBackupEnv(t *testing.T) (interfaces.ExportService, interfaces.PaperService) {
	t.Helper()

	logger := arbor.NewLogger()
	storage, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create storage manager: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	papers := paperssvc.NewService(storage, nil, nil, nil, logger)
	content := contentsvc.NewService(storage, nil, nil, logger)
	return exporter.NewService(papers, content, nil, logger), papers
}

func TestBackupWritesSnapshot(t *testing.T) {
	export, papers := newBackupEnv(t)
	logger := arbor.NewLogger()
	dir := t.TempDir()

	// Step 1: One paper in the library
	if _, err := papers.CreatePaper(context.Background(), &models.CreatePaperRequest{Title: "Backup Me"}); err != nil {
		t.Fatalf("Failed to create paper: %v", err)
	}

	// Step 2: Start the scheduler and trigger a backup
	sched := NewService(export, &common.BackupConfig{Enabled: true, Schedule: "0 3 * * *", Keep: 7}, dir, logger)
	if err := sched.Start(); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}
	t.Cleanup(func() { sched.Stop() })

	if err := sched.TriggerBackupNow(); err != nil {
		t.Fatalf("Failed to trigger backup: %v", err)
	}

	// Step 3: A snapshot file landed in the backup directory
	matches, err := filepath.Glob(filepath.Join(dir, "neuink_backup_*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("Expected exactly one backup file, got %v (err %v)", matches, err)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}
	var snapshot struct {
		Count  int `json:"count"`
		Papers []struct {
			Paper struct {
				Title string `json:"title"`
			} `json:"paper"`
		} `json:"papers"`
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("Backup is not a valid library export: %v", err)
	}
	if snapshot.Count != 1 || snapshot.Papers[0].Paper.Title != "Backup Me" {
		t.Errorf("Unexpected backup contents: %+v", snapshot)
	}

	// Step 4: The job status reflects the run
	status, err := sched.GetJobStatus("library-backup")
	if err != nil {
		t.Fatalf("Failed to get job status: %v", err)
	}
	if status.LastRun == nil {
		t.Error("Expected a recorded last run")
	}
	if status.LastError != "" {
		t.Errorf("Expected no last error, got %q", status.LastError)
	}
	if status.NextRun == nil {
		t.Error("Expected a computed next run for an enabled job")
	}
}

func TestBackupPrunesOldSnapshots(t *testing.T) {
	export, _ := newBackupEnv(t)
	logger := arbor.NewLogger()
	dir := t.TempDir()

	// Step 1: Three stale snapshots already on disk
	for _, stamp := range []string{"20250101_000000", "20250102_000000", "20250103_000000"} {
		path := filepath.Join(dir, "neuink_backup_"+stamp+".json")
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatalf("Failed to seed stale backup: %v", err)
		}
	}

	// Step 2: A fresh backup with retention 2 prunes down to the newest two
	sched := NewService(export, &common.BackupConfig{Enabled: true, Keep: 2}, dir, logger)
	if err := sched.TriggerBackupNow(); err != nil {
		t.Fatalf("Failed to trigger backup: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "neuink_backup_*.json"))
	if err != nil {
		t.Fatalf("Failed to list backups: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 backups after pruning, got %d: %v", len(matches), matches)
	}
	for _, stale := range []string{"20250101_000000", "20250102_000000"} {
		if _, err := os.Stat(filepath.Join(dir, "neuink_backup_"+stale+".json")); !os.IsNotExist(err) {
			t.Errorf("Expected stale backup %s to be pruned", stale)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "neuink_backup_20250103_000000.json")); err != nil {
		t.Error("Expected the newest seeded backup to survive pruning")
	}
}

func TestBackupFailureRecorded(t *testing.T) {
	export, _ := newBackupEnv(t)
	logger := arbor.NewLogger()

	// Step 1: The backup directory path is occupied by a regular file
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to block backup dir: %v", err)
	}

	sched := NewService(export, &common.BackupConfig{Enabled: true, Schedule: "0 3 * * *"}, blocked, logger)
	if err := sched.Start(); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}
	t.Cleanup(func() { sched.Stop() })

	// Step 2: The trigger fails and the status carries the error
	if err := sched.TriggerBackupNow(); err == nil {
		t.Fatal("Expected backup into a blocked directory to fail")
	}
	status, err := sched.GetJobStatus("library-backup")
	if err != nil {
		t.Fatalf("Failed to get job status: %v", err)
	}
	if status.LastError == "" {
		t.Error("Expected the failure to be recorded on the job")
	}
}

func TestRegisterAndToggleJob(t *testing.T) {
	export, _ := newBackupEnv(t)
	logger := arbor.NewLogger()
	sched := NewService(export, &common.BackupConfig{}, t.TempDir(), logger)

	// Step 1: Register a custom job
	if err := sched.RegisterJob("probe", "* * * * *", func() error { return nil }); err != nil {
		t.Fatalf("Failed to register job: %v", err)
	}
	if err := sched.RegisterJob("probe", "* * * * *", func() error { return nil }); err == nil {
		t.Error("Expected duplicate registration to fail")
	}
	if err := sched.RegisterJob("bad", "not-cron", func() error { return nil }); err == nil {
		t.Error("Expected invalid schedule to fail")
	}

	// Step 2: Disable and re-enable
	if err := sched.DisableJob("probe"); err != nil {
		t.Fatalf("Failed to disable job: %v", err)
	}
	status, err := sched.GetJobStatus("probe")
	if err != nil {
		t.Fatalf("Failed to get job status: %v", err)
	}
	if status.Enabled {
		t.Error("Expected job to be disabled")
	}
	if status.NextRun != nil {
		t.Error("Expected no next run for a disabled job")
	}

	if err := sched.EnableJob("probe"); err != nil {
		t.Fatalf("Failed to enable job: %v", err)
	}
	status, _ = sched.GetJobStatus("probe")
	if !status.Enabled {
		t.Error("Expected job to be enabled again")
	}

	// Step 3: Unknown jobs error
	if _, err := sched.GetJobStatus("ghost"); err == nil {
		t.Error("Expected unknown job status to fail")
	}
	if err := sched.EnableJob("ghost"); err == nil {
		t.Error("Expected enabling unknown job to fail")
	}

	// Step 4: All statuses include both built-in and custom jobs
	all := sched.GetAllJobStatuses()
	if _, ok := all["probe"]; !ok {
		t.Error("Expected probe job in status map")
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	export, _ := newBackupEnv(t)
	logger := arbor.NewLogger()
	sched := NewService(export, &common.BackupConfig{Enabled: true, Schedule: "0 3 * * *"}, t.TempDir(), logger)

	if sched.IsRunning() {
		t.Error("Expected scheduler to start stopped")
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}
	if !sched.IsRunning() {
		t.Error("Expected scheduler to be running")
	}
	if err := sched.Start(); err == nil {
		t.Error("Expected double start to fail")
	}
	if err := sched.Stop(); err != nil {
		t.Fatalf("Failed to stop: %v", err)
	}
	if sched.IsRunning() {
		t.Error("Expected scheduler to be stopped")
	}
	if err := sched.Stop(); err != nil {
		t.Errorf("Expected stop to be idempotent, got %v", err)
	}

	// Restarting after a stop re-uses the registered backup job
	if err := sched.Start(); err != nil {
		t.Fatalf("Failed to restart: %v", err)
	}
	sched.Stop()
}
