package contacts

import (
	"context"
	"errors"

	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("contacts: not found")
	ErrDuplicateEmail = errors.New("contacts: email already exists")
)

type Store interface {
	List(ctx context.Context) ([]Contact, error)
	Find(ctx context.Context, id string) (*Contact, error)
	Create(ctx context.Context, c *Contact) error
	Save(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context) ([]Contact, error) {
	var out []Contact
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, eris.Wrap(err, "contacts: list")
	}
	return out, nil
}

func (s *GormStore) Find(ctx context.Context, id string) (*Contact, error) {
	var c Contact
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if db.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "contacts: find")
	}
	return &c, nil
}

func (s *GormStore) Create(ctx context.Context, c *Contact) error {
	return writeErr(s.db.WithContext(ctx).Create(c).Error, "contacts: create")
}

// Save writes every column of an existing contact.
func (s *GormStore) Save(ctx context.Context, c *Contact) error {
	return writeErr(s.db.WithContext(ctx).Save(c).Error, "contacts: save")
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Contact{})
	if res.Error != nil {
		return eris.Wrap(res.Error, "contacts: delete")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func writeErr(err error, msg string) error {
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return eris.Wrap(err, msg)
}
