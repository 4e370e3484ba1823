package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ycelik/miniblog/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind an opaque token. The token is
// the only thing the client ever holds; identity and role live here.
type Session struct {
	Token    string      `json:"-"`
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// Store keeps sessions in Redis, keyed session:<token>, expiring after ttl.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(redisURL string, ttl time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		ttl:    ttl,
	}, nil
}

// Create issues a fresh opaque token for the user and stores the record.
func (s *Store) Create(ctx context.Context, user *models.User) (*Session, error) {
	sess := &Session{
		Token:    uuid.New().String(),
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, s.key(sess.Token), data, s.ttl).Err(); err != nil {
		return nil, err
	}

	return sess, nil
}

// Get resolves a token to its session record. An unknown or expired token
// is ErrNotFound.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	sess.Token = token

	return &sess, nil
}

// Delete ends a session. Deleting an absent token is a no-op.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(token string) string {
	return fmt.Sprintf("session:%s", token)
}
