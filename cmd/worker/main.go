package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"academy/internal/config"
	"academy/internal/mailer"
	"academy/internal/metrics"
	"academy/internal/queue"
	"academy/internal/store"
)

// Worker consumes queued mail jobs and delivers them through the mail
// gateway. Milestone mail is best-effort: failures are logged, jobs are
// not retried.
func main() {
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		jobs = queue.NewInMemory(64)
	} else {
		jobs = queue.NewRedisQueue(redisClient.Client, "academy:mail")
	}

	var mail mailer.Mailer
	if cfg.BrevoAPIKey != "" {
		mail = mailer.NewBrevo(cfg.BrevoAPIKey, cfg.MailFromName, cfg.MailFromAddress)
	} else {
		mail = mailer.Console{}
		log.Warn("BREVO_API_KEY not set, mail goes to log only")
	}

	messages, err := jobs.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Info("mail worker started, waiting for jobs...")
	for msg := range messages {
		if msg.Type != queue.TypeMilestone {
			continue
		}

		var job queue.MilestoneJob
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.WithError(err).Error("bad milestone job payload")
			continue
		}

		if err := mail.Send(ctx, mailer.MilestoneMail(job.Email, job.Name, job.Sessions)); err != nil {
			metrics.MailSent.WithLabelValues("milestone", "error").Inc()
			log.WithError(err).WithField("email", job.Email).Error("milestone mail failed")
			continue
		}
		metrics.MailSent.WithLabelValues("milestone", "ok").Inc()
		log.WithFields(log.Fields{
			"email":    job.Email,
			"sessions": job.Sessions,
		}).Info("milestone mail sent")
	}

	log.Info("worker stopped")
}
