package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"vertitrack/internal/config"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/pkg/observability"
	"vertitrack/internal/repository"
	"vertitrack/internal/service/alert"
	"vertitrack/internal/service/archive"
	"vertitrack/internal/service/dashboard"
	"vertitrack/internal/service/email"
	"vertitrack/internal/service/message"
	"vertitrack/internal/service/reminder"
)

type Services struct {
	Alert     alert.Service
	Reminder  reminder.Service
	Dashboard dashboard.Service
}

func NewServices(
	repos *repository.Repositories,
	redis *redis.Client,
	minioClient *minio.Client,
	translator message.Translator,
	clk clock.Clock,
	logger *observability.Logger,
	metrics observability.Metrics,
	cfg *config.Config,
) *Services {
	var archiver alert.Archiver
	if minioClient != nil {
		archiver = archive.NewService(minioClient, cfg.MinIOBucket)
	}
	alertService := alert.NewService(repos.Alert, clk, redis, archiver, cfg.StoreTimeout)

	emailService := email.NewService(cfg)
	var notifier reminder.Notifier
	if emailService != nil {
		notifier = emailService
	}

	reminderService := reminder.NewService(
		reminder.NewSource(repos, cfg.HorizonDays),
		alertService,
		message.NewService(translator, cfg.AlertLocale),
		clk,
		logger,
		metrics,
		redis,
		notifier,
		reminder.Options{ServiceDueDays: cfg.ServiceDueDays},
	)

	return &Services{
		Alert:     alertService,
		Reminder:  reminderService,
		Dashboard: dashboard.NewService(alertService, redis),
	}
}
