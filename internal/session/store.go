// Package session implements server-side sessions backed by Redis.
//
// The client holds a signed token (an HS256 JWT carrying only the session
// ID); all session state lives in Redis under session:<id>. Sessions exist
// for anonymous visitors too so that flash notices can be shown before
// login.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mingle/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// Flash is a transient, category-tagged notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the server-side session state for one browser.
type Session struct {
	ID       string  `json:"-"`
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	Flashes  []Flash `json:"flashes,omitempty"`
}

// Authenticated reports whether a user is signed in on this session.
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Flash appends a notice to be rendered on the next page.
func (s *Session) Flash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes drains and returns all pending notices.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// Store creates, loads and persists sessions.
type Store struct {
	redis  *redis.Client
	secret []byte
	ttl    time.Duration
}

// NewStore returns a Store writing to the given Redis client. Tokens are
// signed with secret; records expire after ttl.
func NewStore(client *redis.Client, secret string, ttl time.Duration) *Store {
	return &Store{redis: client, secret: []byte(secret), ttl: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create makes a new anonymous session and persists it.
func (st *Store) Create(ctx context.Context) (*Session, error) {
	sess := &Session{ID: uuid.NewString()}
	if err := st.Save(ctx, sess); err != nil {
		return nil, err
	}
	observability.SessionsCreated.WithLabelValues("anonymous").Inc()
	return sess, nil
}

// Get loads the session referenced by a cookie token. It returns (nil, nil)
// when the token is missing, malformed, forged or expired, or when the
// session record is gone; those cases are indistinguishable to the client.
func (st *Store) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	id, ok := st.parseToken(token)
	if !ok {
		return nil, nil
	}

	raw, err := st.redis.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	sess := &Session{ID: id}
	if err := json.Unmarshal([]byte(raw), sess); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return sess, nil
}

// Save persists the session, refreshing its TTL.
func (st *Store) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := st.redis.Set(ctx, sessionKey(sess.ID), raw, st.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Destroy removes the session record. The cookie token becomes useless
// immediately even though the client still holds it.
func (st *Store) Destroy(ctx context.Context, sess *Session) error {
	if err := st.redis.Del(ctx, sessionKey(sess.ID)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

// Login replaces sess with a fresh authenticated session, dropping any prior
// state so nothing leaks across the privilege boundary.
func (st *Store) Login(ctx context.Context, sess *Session, userID uint, username string) (*Session, error) {
	if sess != nil {
		if err := st.Destroy(ctx, sess); err != nil {
			return nil, err
		}
	}
	fresh := &Session{ID: uuid.NewString(), UserID: userID, Username: username}
	if err := st.Save(ctx, fresh); err != nil {
		return nil, err
	}
	observability.SessionsCreated.WithLabelValues("authenticated").Inc()
	return fresh, nil
}

// Token returns the signed cookie value for a session.
func (st *Store) Token(sess *Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sess.ID,
		"iat": now.Unix(),
		"exp": now.Add(st.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(st.secret)
}

// TTL returns the configured session lifetime.
func (st *Store) TTL() time.Duration {
	return st.ttl
}

func (st *Store) parseToken(token string) (string, bool) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return st.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", false
	}
	return sid, true
}
