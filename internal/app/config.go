package app

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-tracker/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/order-tracker/internal/storage/file"
)

// Драйверы хранилища коллекций.
const (
	StorageDriverFile     = "file"
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	PendingPath   string
	CompletedPath string

	StorageDriver string
	PostgresDSN   string

	// KafkaBrokers пустой — события не публикуются.
	KafkaBrokers []string
	KafkaTopic   string

	// MetricsPath пустой — метрики сессии не сохраняются на диск.
	MetricsPath string

	LogLevel log.Level
}

// DefaultConfig возвращает файловое хранилище в текущем каталоге без внешних интеграций.
func DefaultConfig() Config {
	return Config{
		PendingPath:   file.DefaultPendingPath,
		CompletedPath: file.DefaultCompletedPath,
		StorageDriver: StorageDriverFile,
		KafkaTopic:    kafka.DefaultTopic,
		LogLevel:      log.WarnLevel,
	}
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StorageDriverFile:
		if strings.TrimSpace(c.PendingPath) == "" {
			errs = append(errs, errors.New("pending path is required"))
		}
		if strings.TrimSpace(c.CompletedPath) == "" {
			errs = append(errs, errors.New("completed path is required"))
		}
		if c.PendingPath != "" && c.PendingPath == c.CompletedPath {
			errs = append(errs, errors.New("pending and completed paths must differ"))
		}
		if c.MetricsPath != "" && (c.MetricsPath == c.PendingPath || c.MetricsPath == c.CompletedPath) {
			errs = append(errs, errors.New("metrics path must differ from collection paths"))
		}
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("postgres dsn is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver: %q", c.StorageDriver))
	}

	return errors.Join(errs...)
}

// fileConfig возвращает пути коллекций для файлового хранилища.
func (c Config) fileConfig() file.Config {
	return file.Config{
		PendingPath:   c.PendingPath,
		CompletedPath: c.CompletedPath,
	}
}
