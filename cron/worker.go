package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"slotsync/services/notification"
)

// Task types handled by the background worker.
const (
	TypeGroupNotify = "group:notify"
	TypeDigestSend  = "digest:send"
)

// GroupNotifyPayload asks the worker to nudge one group's subscribers.
type GroupNotifyPayload struct {
	GroupID string `json:"groupId"`
}

// digestCronSpec fires every Sunday at 19:00, right at the inactivity cutoff.
const digestCronSpec = "0 19 * * 0"

// Worker consumes queued notification tasks and owns the weekly digest
// schedule.
type Worker struct {
	redisOpt asynq.RedisClientOpt
	notifSvc notification.NotificationService
	logger   *zap.Logger

	server    *asynq.Server
	scheduler *asynq.Scheduler
}

// NewWorker builds the asynq server and scheduler on the given Redis options.
func NewWorker(redisOpt asynq.RedisClientOpt, notifSvc notification.NotificationService, logger *zap.Logger) *Worker {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.Local,
	})
	return &Worker{
		redisOpt:  redisOpt,
		notifSvc:  notifSvc,
		logger:    logger,
		server:    server,
		scheduler: scheduler,
	}
}

// Start runs the worker and the digest schedule in the background.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeGroupNotify, w.handleGroupNotify)
	mux.HandleFunc(TypeDigestSend, w.handleDigest)

	if _, err := w.scheduler.Register(digestCronSpec, asynq.NewTask(TypeDigestSend, nil)); err != nil {
		return err
	}

	go func() {
		if err := w.server.Run(mux); err != nil {
			w.logger.Error("notification worker stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := w.scheduler.Run(); err != nil {
			w.logger.Error("digest scheduler stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the worker and scheduler.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func (w *Worker) handleGroupNotify(ctx context.Context, task *asynq.Task) error {
	var p GroupNotifyPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.logger.Error("invalid group notify payload", zap.Error(err))
		return err
	}

	result, err := w.notifSvc.NotifyGroup(ctx, p.GroupID)
	if err != nil {
		w.logger.Error("group notify failed", zap.String("groupId", p.GroupID), zap.Error(err))
		return err
	}
	w.logger.Info("group notify done",
		zap.String("groupId", p.GroupID),
		zap.Int("sent", result.SentCount),
		zap.Int("failed", result.FailedCount))
	return nil
}

func (w *Worker) handleDigest(ctx context.Context, _ *asynq.Task) error {
	result, err := w.notifSvc.RunDigest(ctx)
	if err != nil {
		w.logger.Error("weekly digest failed", zap.Error(err))
		return err
	}
	w.logger.Info("weekly digest done",
		zap.Int("sent", result.SentCount),
		zap.Int("failed", result.FailedCount),
		zap.Time("cutoff", result.Cutoff))
	return nil
}
