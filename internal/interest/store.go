package interest

import (
	"context"
	"errors"

	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/VybCoding/OneWonderLake/internal/utils"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("interest: not found")
	ErrDuplicateEmail = errors.New("interest: email already registered")
)

type Store interface {
	Create(ctx context.Context, p *InterestedParty) error
	FindByEmail(ctx context.Context, email string) (*InterestedParty, error)
	List(ctx context.Context) ([]InterestedParty, error)
	MarkEmailSent(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Subscriptions
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, p *InterestedParty) error {
	err := s.db.WithContext(ctx).Create(p).Error
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return eris.Wrap(err, "interest: create")
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*InterestedParty, error) {
	var p InterestedParty
	err := s.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&p).Error
	if err != nil {
		return nil, notFound(err, "interest: find by email")
	}
	return &p, nil
}

func (s *GormStore) List(ctx context.Context) ([]InterestedParty, error) {
	var out []InterestedParty
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, eris.Wrap(err, "interest: list")
	}
	return out, nil
}

func (s *GormStore) MarkEmailSent(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Model(&InterestedParty{}).
		Where("id = ?", id).
		Update("email_sent", true).Error
	return eris.Wrap(err, "interest: mark email sent")
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&InterestedParty{})
	if res.Error != nil {
		return eris.Wrap(res.Error, "interest: delete")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FindSubscriber(ctx context.Context, token string) (*utils.Subscriber, error) {
	var p InterestedParty
	err := s.db.WithContext(ctx).Where("unsubscribe_token = ?", token).First(&p).Error
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "interest: find by token")
	}
	return &utils.Subscriber{Email: p.Email, Unsubscribed: p.Unsubscribed}, nil
}

func (s *GormStore) Unsubscribe(ctx context.Context, token string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&InterestedParty{}).
		Where("unsubscribe_token = ?", token).
		Update("unsubscribed", true)
	if res.Error != nil {
		return false, eris.Wrap(res.Error, "interest: unsubscribe")
	}
	return res.RowsAffected > 0, nil
}

func notFound(err error, msg string) error {
	if db.IsNotFound(err) {
		return ErrNotFound
	}
	return eris.Wrap(err, msg)
}
