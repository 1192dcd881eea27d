package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/VybCoding/OneWonderLake/internal/utils"
	"github.com/rotisserie/eris"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("auth: not found")
	ErrUsernameTaken = errors.New("auth: username already taken")
)

type Store interface {
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, userID, hashed string) error

	// PutSession replaces any existing session for the user.
	PutSession(ctx context.Context, s *Session) error
	FindSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, notFound(err, "auth: find user by username")
	}
	return &u, nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "user_id = ?", id).Error; err != nil {
		return nil, notFound(err, "auth: find user")
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return eris.Wrap(err, "auth: create user")
	}
	return nil
}

func (s *GormStore) UpdatePassword(ctx context.Context, userID, hashed string) error {
	err := s.db.WithContext(ctx).Model(&User{}).
		Where("user_id = ?", userID).
		Update("hashed_password", hashed).Error
	return eris.Wrap(err, "auth: update password")
}

func (s *GormStore) PutSession(ctx context.Context, sess *Session) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", sess.UserID).Delete(&Session{}).Error; err != nil {
			return err
		}
		return tx.Create(sess).Error
	})
	return eris.Wrap(err, "auth: put session")
}

func (s *GormStore) FindSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	if err := s.db.WithContext(ctx).First(&sess, "session_id = ?", id).Error; err != nil {
		return nil, notFound(err, "auth: find session")
	}
	return &sess, nil
}

func (s *GormStore) DeleteSession(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("session_id = ?", id).Delete(&Session{})
	if res.Error != nil {
		return eris.Wrap(res.Error, "auth: delete session")
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

// CreateUser hashes password and stores a new account.
func CreateUser(ctx context.Context, store Store, username, email, password, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, eris.New("auth: username and password are required")
	}
	if role != RoleAdmin && role != RoleUser {
		return nil, eris.Errorf("auth: unknown role %q", role)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, eris.Wrap(err, "auth: hash password")
	}
	u := &User{
		UserID:         utils.GenerateUUID(),
		Username:       username,
		Email:          strings.TrimSpace(email),
		HashedPassword: string(hashed),
		Role:           role,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SessionInfo adapts a Store to the session and role lookups the
// middleware package expects.
type SessionInfo struct {
	Store Store
}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	sess, err := si.Store.FindSession(context.Background(), id)
	if err != nil {
		return utils.SessionData{}, err
	}
	return utils.SessionData{
		UserID:    sess.UserID,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (si SessionInfo) FindUserRole(userID string) (string, error) {
	u, err := si.Store.FindUserByID(context.Background(), userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func newSession(userID string, ttl time.Duration) *Session {
	return &Session{
		SessionID: utils.GenerateUUID(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
}
