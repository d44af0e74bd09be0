package database

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/frahmantamala/expense-tracker/internal/core/datamodel/record"
	"github.com/frahmantamala/expense-tracker/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements storage.KeyValue on the kv_records table. Quota is
// measured in characters of payload across all keys.
type Store struct {
	db         *gorm.DB
	quotaBytes int64
}

func NewStore(db *gorm.DB, quotaBytes int64) *Store {
	return &Store{db: db, quotaBytes: quotaBytes}
}

func (s *Store) Get(key string) (string, bool, error) {
	var rec record.Record
	err := s.db.Where("record_key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.Payload, true, nil
}

func (s *Store) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

func (s *Store) SetMany(entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entries))
	var incoming int64
	for key, value := range entries {
		keys = append(keys, key)
		incoming += int64(utf8.RuneCountInString(value))
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if s.quotaBytes > 0 {
			var used int64
			err := tx.Model(&record.Record{}).
				Where("record_key NOT IN ?", keys).
				Select("COALESCE(SUM(LENGTH(payload)), 0)").
				Scan(&used).Error
			if err != nil {
				return err
			}
			if used+incoming > s.quotaBytes {
				return storage.ErrQuotaExceeded
			}
		}

		now := time.Now().UTC()
		for key, value := range entries {
			rec := record.Record{Key: key, Payload: value, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "record_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
			}).Create(&rec).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Where("record_key IN ?", keys).Delete(&record.Record{}).Error
}
