package services

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron"
)

const heartbeatTag = "heartbeat"

// HeartbeatService periodically logs process health. It runs on its own
// scheduler and shares nothing with the pipeline.
type HeartbeatService struct {
	scheduler     *gocron.Scheduler
	logger        *slog.Logger
	interval      time.Duration
	reclaimMemory bool
	startedAt     time.Time
}

// NewHeartbeatService creates a heartbeat that fires every interval.
// When reclaimMemory is set each beat also returns freed memory to the OS.
func NewHeartbeatService(logger *slog.Logger, interval time.Duration, reclaimMemory bool) *HeartbeatService {
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()

	return &HeartbeatService{
		scheduler:     s,
		logger:        logger,
		interval:      interval,
		reclaimMemory: reclaimMemory,
		startedAt:     time.Now(),
	}
}

// Start schedules the heartbeat job and starts the scheduler in the
// background. The first beat fires after one interval.
func (h *HeartbeatService) Start() error {
	if h.interval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %s", h.interval)
	}

	if _, err := h.scheduler.Every(h.interval).Tag(heartbeatTag).WaitForSchedule().Do(h.Beat); err != nil {
		return fmt.Errorf("failed to schedule heartbeat: %w", err)
	}

	h.scheduler.StartAsync()
	h.logger.Info("Heartbeat started", "interval", h.interval.String(), "reclaim_memory", h.reclaimMemory)
	return nil
}

// ScheduleInterval adds another maintenance job to the same scheduler.
// Jobs must not touch pipeline state.
func (h *HeartbeatService) ScheduleInterval(tag string, interval time.Duration, job func()) error {
	if interval <= 0 {
		return fmt.Errorf("interval for %s must be positive, got %s", tag, interval)
	}
	_, err := h.scheduler.Every(interval).Tag(tag).WaitForSchedule().Do(job)
	return err
}

// Stop stops the scheduler
func (h *HeartbeatService) Stop() {
	h.scheduler.Stop()
	h.logger.Info("Heartbeat stopped")
}

// Jobs returns the scheduled jobs
func (h *HeartbeatService) Jobs() []*gocron.Job {
	return h.scheduler.Jobs()
}

// Beat logs one heartbeat line
func (h *HeartbeatService) Beat() {
	if h.reclaimMemory {
		debug.FreeOSMemory()
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	h.logger.Info("Heartbeat",
		"uptime_seconds", int64(time.Since(h.startedAt).Seconds()),
		"goroutines", runtime.NumGoroutine(),
		"heap_alloc_bytes", mem.HeapAlloc,
		"heap_sys_bytes", mem.HeapSys,
		"num_gc", mem.NumGC,
		"memory_reclaimed", h.reclaimMemory,
	)
}
