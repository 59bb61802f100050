// Package file хранит коллекции заказов в JSON-файлах.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
)

const (
	// DefaultPendingPath — файл коллекции ожидающих заказов.
	DefaultPendingPath = "orders.json"
	// DefaultCompletedPath — файл коллекции выданных заказов.
	DefaultCompletedPath = "output_orders.json"

	filePerm = 0o644
	indent   = "    "
)

// Config задаёт пути к файлам коллекций.
type Config struct {
	PendingPath   string
	CompletedPath string
}

// DefaultConfig возвращает имена файлов по умолчанию в текущем каталоге.
func DefaultConfig() Config {
	return Config{
		PendingPath:   DefaultPendingPath,
		CompletedPath: DefaultCompletedPath,
	}
}

// Load читает коллекцию из path. Отсутствующий файл даёт пустую коллекцию и не создаётся.
func Load(path string) ([]domain.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Order{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedData, path, err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// Save полностью перезаписывает path коллекцией orders.
// JSON с отступом в 4 пробела, не-ASCII символы пишутся как есть.
func Save(path string, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(orders); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Store — файловая реализация domain.CollectionStore.
type Store struct {
	cfg    Config
	logger *log.Entry
}

// NewStore создаёт файловое хранилище для путей из cfg.
func NewStore(cfg Config, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.WithField("component", "file-store")
	}
	return &Store{cfg: cfg, logger: logger}
}

// Load реализует domain.CollectionStore.
func (s *Store) Load(ctx context.Context, name domain.Collection) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	orders, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(log.Fields{
		"collection": name,
		"path":       path,
		"count":      len(orders),
	}).Debug("collection loaded")
	return orders, nil
}

// Save реализует domain.CollectionStore.
func (s *Store) Save(ctx context.Context, name domain.Collection, orders []domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := Save(path, orders); err != nil {
		return err
	}
	s.logger.WithFields(log.Fields{
		"collection": name,
		"path":       path,
		"count":      len(orders),
	}).Debug("collection saved")
	return nil
}

func (s *Store) path(name domain.Collection) (string, error) {
	switch name {
	case domain.CollectionPending:
		return s.cfg.PendingPath, nil
	case domain.CollectionCompleted:
		return s.cfg.CompletedPath, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownCollection, name)
	}
}

var _ domain.CollectionStore = (*Store)(nil)
