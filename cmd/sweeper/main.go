package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"teaching-schedule-core/internal/config"
	"teaching-schedule-core/internal/repository"
	"teaching-schedule-core/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetCoreConfig()
	logrus.Info("Config initialized...")

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.Fatal("Failed to load timezone:", err)
	}

	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite limitation
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	if cfg.DatabaseDriver == "sqlite" {
		if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
			logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
		}
	}

	scheduleRepo, err := repository.NewGormScheduleRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create schedule repository")
	}

	attendanceRepo, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create attendance repository")
	}

	statusService := service.NewScheduleStatusService(scheduleRepo, attendanceRepo)

	scheduler := cron.New(cron.WithLocation(location))

	_, err = scheduler.AddFunc(cfg.SweepCron, func() {
		result, err := statusService.SweepPastDue(time.Now().In(location))
		if err != nil {
			logrus.WithError(err).Error("Past-due sweep failed")
			return
		}
		logrus.WithFields(logrus.Fields{
			"done":     result.Done,
			"canceled": result.Canceled,
			"failed":   result.Failed,
		}).Info("Past-due sweep completed")
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to register past-due sweep")
	}

	_, err = scheduler.AddFunc(cfg.EODSweepCron, func() {
		promoted, err := statusService.SweepEndOfDay(time.Now().In(location))
		if err != nil {
			logrus.WithError(err).Error("End-of-day sweep failed")
			return
		}
		logrus.WithField("promoted", promoted).Info("End-of-day sweep completed")
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to register end-of-day sweep")
	}

	scheduler.Start()
	logrus.Info("Sweeper started. Press Ctrl+C to stop.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx := scheduler.Stop()
	<-ctx.Done()

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Sweeper stopped gracefully")
}
