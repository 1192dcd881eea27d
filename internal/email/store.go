package email

import (
	"context"
	"errors"

	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("email: not found")

type Store interface {
	CreateCorrespondence(ctx context.Context, c *EmailCorrespondence) error
	ListCorrespondence(ctx context.Context) ([]EmailCorrespondence, error)
	ListCorrespondenceByRelated(ctx context.Context, relatedType, relatedID string) ([]EmailCorrespondence, error)

	CreateInbound(ctx context.Context, e *InboundEmail) error
	ListInbound(ctx context.Context) ([]InboundEmail, error)
	FindInbound(ctx context.Context, id string) (*InboundEmail, error)
	FindInboundByResendID(ctx context.Context, resendID string) (*InboundEmail, error)
	MarkInboundRead(ctx context.Context, id string) error
	MarkInboundReplied(ctx context.Context, id, replyEmailID string) error
	DeleteInbound(ctx context.Context, id string) error

	GetUsage(ctx context.Context, month string) (*EmailUsage, error)
	IncrementSent(ctx context.Context, month string) (*EmailUsage, error)
	IncrementReceived(ctx context.Context, month string) (*EmailUsage, error)
	SetShutoff(ctx context.Context, month string, shutoff bool) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateCorrespondence(ctx context.Context, c *EmailCorrespondence) error {
	return eris.Wrap(s.db.WithContext(ctx).Create(c).Error, "email: create correspondence")
}

func (s *GormStore) ListCorrespondence(ctx context.Context) ([]EmailCorrespondence, error) {
	var out []EmailCorrespondence
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, eris.Wrap(err, "email: list correspondence")
	}
	return out, nil
}

func (s *GormStore) ListCorrespondenceByRelated(ctx context.Context, relatedType, relatedID string) ([]EmailCorrespondence, error) {
	var out []EmailCorrespondence
	err := s.db.WithContext(ctx).
		Where("related_type = ? AND related_id = ?", relatedType, relatedID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, eris.Wrap(err, "email: list correspondence by related")
	}
	return out, nil
}

func (s *GormStore) CreateInbound(ctx context.Context, e *InboundEmail) error {
	return eris.Wrap(s.db.WithContext(ctx).Create(e).Error, "email: create inbound")
}

func (s *GormStore) ListInbound(ctx context.Context) ([]InboundEmail, error) {
	var out []InboundEmail
	if err := s.db.WithContext(ctx).Order("received_at DESC").Find(&out).Error; err != nil {
		return nil, eris.Wrap(err, "email: list inbound")
	}
	return out, nil
}

func (s *GormStore) FindInbound(ctx context.Context, id string) (*InboundEmail, error) {
	var e InboundEmail
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "email: find inbound")
	}
	return &e, nil
}

func (s *GormStore) FindInboundByResendID(ctx context.Context, resendID string) (*InboundEmail, error) {
	var e InboundEmail
	if err := s.db.WithContext(ctx).First(&e, "resend_email_id = ?", resendID).Error; err != nil {
		return nil, notFound(err, "email: find inbound by resend id")
	}
	return &e, nil
}

func (s *GormStore) MarkInboundRead(ctx context.Context, id string) error {
	return s.updateInbound(ctx, id, map[string]any{"is_read": true})
}

func (s *GormStore) MarkInboundReplied(ctx context.Context, id, replyEmailID string) error {
	return s.updateInbound(ctx, id, map[string]any{"is_replied": true, "reply_email_id": replyEmailID})
}

func (s *GormStore) updateInbound(ctx context.Context, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&InboundEmail{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return eris.Wrap(res.Error, "email: update inbound")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteInbound(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&InboundEmail{})
	if res.Error != nil {
		return eris.Wrap(res.Error, "email: delete inbound")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUsage returns the month's counters, creating a zero row if needed.
func (s *GormStore) GetUsage(ctx context.Context, month string) (*EmailUsage, error) {
	u := EmailUsage{Month: month}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&u).Error
	if err != nil {
		return nil, eris.Wrap(err, "email: ensure usage row")
	}
	if err := s.db.WithContext(ctx).First(&u, "month = ?", month).Error; err != nil {
		return nil, eris.Wrap(err, "email: get usage")
	}
	return &u, nil
}

func (s *GormStore) IncrementSent(ctx context.Context, month string) (*EmailUsage, error) {
	return s.increment(ctx, month, "sent_count")
}

func (s *GormStore) IncrementReceived(ctx context.Context, month string) (*EmailUsage, error) {
	return s.increment(ctx, month, "received_count")
}

func (s *GormStore) increment(ctx context.Context, month, column string) (*EmailUsage, error) {
	if _, err := s.GetUsage(ctx, month); err != nil {
		return nil, err
	}
	var u EmailUsage
	err := s.db.WithContext(ctx).Model(&u).
		Clauses(clause.Returning{}).
		Where("month = ?", month).
		Update(column, gorm.Expr(column+" + 1")).Error
	if err != nil {
		return nil, eris.Wrapf(err, "email: increment %s", column)
	}
	return &u, nil
}

func (s *GormStore) SetShutoff(ctx context.Context, month string, shutoff bool) error {
	if _, err := s.GetUsage(ctx, month); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Model(&EmailUsage{}).
		Where("month = ?", month).
		Update("is_shutoff", shutoff).Error
	return eris.Wrap(err, "email: set shutoff")
}

func notFound(err error, msg string) error {
	if db.IsNotFound(err) {
		return ErrNotFound
	}
	return eris.Wrap(err, msg)
}
