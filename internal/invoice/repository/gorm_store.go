package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentRecord is one persisted document row.
type DocumentRecord struct {
	Key       string `gorm:"column:record_key;primaryKey;size:191"`
	Payload   []byte `gorm:"not null"`
	Metadata  datatypes.JSONMap
	UpdatedAt time.Time `gorm:"not null"`
}

func (DocumentRecord) TableName() string {
	return "document_records"
}

// GormStore persists records in a SQL table.
type GormStore struct {
	db       *gorm.DB
	compress bool
	now      func() time.Time
}

// NewGormStore migrates the record table and returns the store.
func NewGormStore(db *gorm.DB, compress bool) (*GormStore, error) {
	if err := db.AutoMigrate(&DocumentRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db, compress: compress, now: time.Now}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record DocumentRecord
	err := s.db.WithContext(ctx).Where("record_key = ?", key).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	codec, _ := record.Metadata["codec"].(string)
	return decodePayload(record.Payload, codec)
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	payload, codec := encodePayload(value, s.compress)
	record := DocumentRecord{
		Key:     key,
		Payload: payload,
		Metadata: datatypes.JSONMap{
			"codec":  codec,
			"schema": schemaVersion,
		},
		UpdatedAt: s.now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "metadata", "updated_at"}),
	}).Create(&record).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("record_key = ?", key).Delete(&DocumentRecord{}).Error
}
