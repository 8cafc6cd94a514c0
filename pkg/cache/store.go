// Package cache persists results of immutable NEAR RPC lookups.
//
// A Store implements rpc.Cache. The client decides which calls may be
// cached; the store only keeps what it is given, keyed by method and the
// canonical params text.
//
// Example:
//
//	store, err := cache.Open(cache.Config{Driver: "sqlite", Name: "near.db"}, lg)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	client, err := rpc.NewClient(dialer, rpc.WithCache(store))
package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/near/near-jsonrpc-go/pkg/rpc"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Entry is one cached result.
type Entry struct {
	ID        int64          `gorm:"primary_key"`
	Method    string         `gorm:"column:method;size:64;not null;uniqueIndex:idx_rpc_cache_key"`
	Key       string         `gorm:"column:cache_key;type:text;not null;uniqueIndex:idx_rpc_cache_key"`
	Result    datatypes.JSON `gorm:"column:result;type:text;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;index:idx_rpc_cache_created_at"`
}

func (Entry) TableName() string {
	return "rpc_cache_entries"
}

// Store is a gorm-backed rpc.Cache.
type Store struct {
	db *gorm.DB
}

var _ rpc.Cache = (*Store)(nil)

// NewStore wraps an open database whose cache table already exists.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get implements rpc.Cache.
func (s *Store) Get(ctx context.Context, method, key string) (value.Value, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).
		Where("method = ? AND cache_key = ?", method, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return value.Value{}, false, nil
	}
	if err != nil {
		return value.Value{}, false, errors.Wrapf(err, "failed to read cache entry for %s", method)
	}

	result, err := value.Parse(entry.Result)
	if err != nil {
		return value.Value{}, false, errors.Wrapf(err, "corrupt cache entry %d", entry.ID)
	}
	return result, true, nil
}

// Put implements rpc.Cache. An existing entry for the same method and key
// is replaced.
func (s *Store) Put(ctx context.Context, method, key string, result value.Value) error {
	data, err := result.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "failed to encode cache entry")
	}

	entry := Entry{
		Method:    method,
		Key:       key,
		Result:    datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "method"}, {Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"result", "created_at"}),
	}).Create(&entry).Error
	if err != nil {
		return errors.Wrapf(err, "failed to store cache entry for %s", method)
	}
	return nil
}

// Purge deletes entries stored more than olderThan ago and returns how many
// were removed.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&Entry{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "failed to purge cache")
	}
	return res.RowsAffected, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count cache entries")
	}
	return n, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
