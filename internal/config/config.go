package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type CoreConfig struct {
	DatabaseDriver string // sqlite or postgres
	DatabaseURL    string
	SweepCron      string // past-due sweep schedule
	EODSweepCron   string // end-of-day sweep schedule
	Timezone       string
}

var instance *CoreConfig
var once sync.Once

func GetCoreConfig() *CoreConfig {
	once.Do(func() {
		instance = &CoreConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Infof("No .env file loaded: %s", err.Error())
		}

		instance.DatabaseDriver = getEnv("DATABASE_DRIVER", "sqlite")
		if instance.DatabaseDriver != "sqlite" && instance.DatabaseDriver != "postgres" {
			logrus.Fatalf("unsupported database driver: %s", instance.DatabaseDriver)
		}

		instance.DatabaseURL = getEnv("DATABASE_URL", "")
		if instance.DatabaseURL == "" {
			logrus.Fatal("could not get db url")
		}

		instance.SweepCron = getEnv("SWEEP_CRON", "0 * * * *")
		instance.EODSweepCron = getEnv("EOD_SWEEP_CRON", "55 23 * * *")
		instance.Timezone = getEnv("TIMEZONE", "Asia/Ho_Chi_Minh")
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}
