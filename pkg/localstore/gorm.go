package localstore

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageBlob is one key's full JSON payload. Save replaces the value
// wholesale, mirroring the file backend's overwrite semantics.
type StorageBlob struct {
	Key   string         `gorm:"primaryKey;size:64"`
	Value datatypes.JSON `gorm:"not null"`
}

// GormStore keeps blobs in a Postgres table.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm connects to Postgres and migrates the blob table.
func OpenGorm(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&StorageBlob{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(key string) ([]byte, bool, error) {
	var row StorageBlob
	if err := s.db.First(&row, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(row.Value), true, nil
}

func (s *GormStore) Save(key string, data []byte) error {
	row := StorageBlob{Key: key, Value: datatypes.JSON(data)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
}
