package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/product_inventory/internal/models"
)

// TokenKey is the fixed storage key of the bearer token.
const TokenKey = "token"

// MemoryDSN opens a private in-memory store.
const MemoryDSN = "file::memory:"

type Store struct {
	DB *gorm.DB
}

// Open opens (creating when needed) the client storage database at dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("token store path is empty")
	}
	if dsn != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
			return nil, fmt.Errorf("create token store dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping token store: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.Setting{}); err != nil {
		return nil, fmt.Errorf("migrate token store: %w", err)
	}
	return &Store{DB: db}, nil
}

// Get returns the stored token, or "" when none is stored.
func (s *Store) Get(ctx context.Context) (string, error) {
	var row models.Setting
	err := s.DB.WithContext(ctx).Where("name = ?", TokenKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return row.Value, nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	row := models.Setting{Name: TokenKey, Value: token}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.DB.WithContext(ctx).Where("name = ?", TokenKey).Delete(&models.Setting{}).Error; err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
