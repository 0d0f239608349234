package sqlite

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/errors"
)

// EntryModel is one key/value row
type EntryModel struct {
	Key       string `gorm:"column:entry_key;type:varchar(255);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"`
}

// TableName returns the table name
func (EntryModel) TableName() string {
	return "kv_entries"
}

// KVStore implements outbound.KeyValueStore on a single SQLite table
type KVStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewKVStore creates a store over an already migrated database
func NewKVStore(db *gorm.DB, logger *zap.Logger) *KVStore {
	return &KVStore{
		db:     db,
		logger: logger.Named("sqlite-store"),
	}
}

// Get returns the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry EntryModel
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, outbound.ErrKeyNotFound
	}
	if err != nil {
		s.logger.Error("Failed to read entry", zap.String("key", key), zap.Error(err))
		return nil, errors.NewDatabaseError("read entry", err)
	}
	return []byte(entry.Value), nil
}

// Set inserts or replaces the value stored under key
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	entry := EntryModel{Key: key, Value: string(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		s.logger.Error("Failed to write entry", zap.String("key", key), zap.Error(err))
		return errors.NewDatabaseError("write entry", err)
	}
	return nil
}

// Delete removes key
func (s *KVStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&EntryModel{}).Error
	if err != nil {
		s.logger.Error("Failed to delete entry", zap.String("key", key), zap.Error(err))
		return errors.NewDatabaseError("delete entry", err)
	}
	return nil
}

// Close releases the underlying connection
func (s *KVStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
