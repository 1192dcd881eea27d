package address

import (
	"context"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// Recorder persists finished checks.
type Recorder interface {
	RecordSearch(ctx context.Context, s *SearchedAddress) error
}

// Store adds the admin read side to Recorder.
type Store interface {
	Recorder
	ListSearches(ctx context.Context) ([]SearchedAddress, error)
	ListSearchesWithCoords(ctx context.Context) ([]SearchedAddress, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) RecordSearch(ctx context.Context, rec *SearchedAddress) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return eris.Wrap(err, "address: record search")
	}
	return nil
}

func (s *GormStore) ListSearches(ctx context.Context) ([]SearchedAddress, error) {
	var out []SearchedAddress
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, eris.Wrap(err, "address: list searches")
	}
	return out, nil
}

// ListSearchesWithCoords returns only rows that can be placed on a map.
func (s *GormStore) ListSearchesWithCoords(ctx context.Context) ([]SearchedAddress, error) {
	var out []SearchedAddress
	err := s.db.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, eris.Wrap(err, "address: list searches with coordinates")
	}
	return out, nil
}
