package questions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/VybCoding/OneWonderLake/internal/utils"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("questions: not found")
	ErrNotAnswered      = errors.New("questions: question has not been answered")
	ErrAlreadyPublished = errors.New("questions: question already published")
)

// AnswerUpdate carries an admin's answer plus optional edits to the
// question text and category. Empty edits leave the field unchanged.
type AnswerUpdate struct {
	Answer   string
	Question string
	Category string
	At       time.Time
}

type Store interface {
	CreateQuestion(ctx context.Context, q *CommunityQuestion) error
	ListQuestions(ctx context.Context) ([]CommunityQuestion, error)
	FindQuestion(ctx context.Context, id string) (*CommunityQuestion, error)
	AnswerQuestion(ctx context.Context, id string, u AnswerUpdate) (*CommunityQuestion, error)
	PublishQuestion(ctx context.Context, id string) (*DynamicFaq, error)
	DeleteQuestion(ctx context.Context, id string) error

	ListFaqs(ctx context.Context) ([]DynamicFaq, error)
	FindFaqByQuestion(ctx context.Context, question string) (*DynamicFaq, error)
	CreateFaq(ctx context.Context, f *DynamicFaq) error
	IncrementFaqView(ctx context.Context, id string) error
	MarkFaqNotNew(ctx context.Context, id string) error
	DeleteFaq(ctx context.Context, id string) error

	FindSubscriber(ctx context.Context, token string) (*utils.Subscriber, error)
	Unsubscribe(ctx context.Context, token string) (bool, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateQuestion(ctx context.Context, q *CommunityQuestion) error {
	return eris.Wrap(s.db.WithContext(ctx).Create(q).Error, "questions: create question")
}

func (s *GormStore) ListQuestions(ctx context.Context) ([]CommunityQuestion, error) {
	var out []CommunityQuestion
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, eris.Wrap(err, "questions: list questions")
	}
	return out, nil
}

func (s *GormStore) FindQuestion(ctx context.Context, id string) (*CommunityQuestion, error) {
	var q CommunityQuestion
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		return nil, notFound(err, "questions: find question")
	}
	return &q, nil
}

func (s *GormStore) AnswerQuestion(ctx context.Context, id string, u AnswerUpdate) (*CommunityQuestion, error) {
	updates := map[string]any{
		"answer":      u.Answer,
		"status":      StatusAnswered,
		"answered_at": u.At,
	}
	if q := strings.TrimSpace(u.Question); q != "" {
		updates["question"] = q
	}
	if ValidCategory(u.Category) {
		updates["category"] = u.Category
	}

	res := s.db.WithContext(ctx).Model(&CommunityQuestion{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, eris.Wrap(res.Error, "questions: answer")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindQuestion(ctx, id)
}

// PublishQuestion copies an answered question into the FAQ list and marks
// it published, in one transaction.
func (s *GormStore) PublishQuestion(ctx context.Context, id string) (*DynamicFaq, error) {
	var faq *DynamicFaq
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q CommunityQuestion
		if err := tx.Where("id = ?", id).First(&q).Error; err != nil {
			return notFound(err, "questions: find question to publish")
		}
		f, err := faqFromQuestion(&q)
		if err != nil {
			return err
		}
		if err := tx.Create(f).Error; err != nil {
			return eris.Wrap(err, "questions: create faq from question")
		}
		if err := tx.Model(&q).Update("status", StatusPublished).Error; err != nil {
			return eris.Wrap(err, "questions: mark published")
		}
		faq = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *GormStore) DeleteQuestion(ctx context.Context, id string) error {
	return deleteByID(s.db.WithContext(ctx), &CommunityQuestion{}, id, "questions: delete question")
}

func (s *GormStore) ListFaqs(ctx context.Context) ([]DynamicFaq, error) {
	var out []DynamicFaq
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, eris.Wrap(err, "questions: list faqs")
	}
	return out, nil
}

func (s *GormStore) FindFaqByQuestion(ctx context.Context, question string) (*DynamicFaq, error) {
	var f DynamicFaq
	if err := s.db.WithContext(ctx).Where("question = ?", question).First(&f).Error; err != nil {
		return nil, notFound(err, "questions: find faq")
	}
	return &f, nil
}

func (s *GormStore) CreateFaq(ctx context.Context, f *DynamicFaq) error {
	return eris.Wrap(s.db.WithContext(ctx).Create(f).Error, "questions: create faq")
}

func (s *GormStore) IncrementFaqView(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Model(&DynamicFaq{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	return eris.Wrap(err, "questions: increment faq view")
}

func (s *GormStore) MarkFaqNotNew(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&DynamicFaq{}).Where("id = ?", id).Update("is_new", false)
	if res.Error != nil {
		return eris.Wrap(res.Error, "questions: mark faq not new")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteFaq(ctx context.Context, id string) error {
	return deleteByID(s.db.WithContext(ctx), &DynamicFaq{}, id, "questions: delete faq")
}

func (s *GormStore) FindSubscriber(ctx context.Context, token string) (*utils.Subscriber, error) {
	var q CommunityQuestion
	err := s.db.WithContext(ctx).Where("unsubscribe_token = ?", token).First(&q).Error
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "questions: find by token")
	}
	return &utils.Subscriber{Email: q.Email, Unsubscribed: q.Unsubscribed}, nil
}

func (s *GormStore) Unsubscribe(ctx context.Context, token string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&CommunityQuestion{}).
		Where("unsubscribe_token = ?", token).
		Update("unsubscribed", true)
	if res.Error != nil {
		return false, eris.Wrap(res.Error, "questions: unsubscribe")
	}
	return res.RowsAffected > 0, nil
}

// faqFromQuestion builds the FAQ row a question publishes to.
func faqFromQuestion(q *CommunityQuestion) (*DynamicFaq, error) {
	if q.Status == StatusPublished {
		return nil, ErrAlreadyPublished
	}
	if q.Answer == nil || strings.TrimSpace(*q.Answer) == "" {
		return nil, ErrNotAnswered
	}
	id := q.ID
	return &DynamicFaq{
		Question:         q.Question,
		Answer:           *q.Answer,
		Category:         q.Category,
		SourceQuestionID: &id,
		IsNew:            true,
		Keywords:         Keywords(q.Question),
	}, nil
}

func deleteByID(tx *gorm.DB, model any, id, msg string) error {
	res := tx.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return eris.Wrap(res.Error, msg)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error, msg string) error {
	if db.IsNotFound(err) {
		return ErrNotFound
	}
	return eris.Wrap(err, msg)
}
