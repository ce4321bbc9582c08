package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens and keeps the in-memory
// revocation set. Revoked entries only matter within one process lifetime;
// a restart clears them, which is fine because the set exists to cut a
// session short, not to survive it.
type TokenService struct {
	secret []byte

	mu      sync.RWMutex
	revoked map[string]time.Time // raw token -> natural expiry
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret:  []byte(secret),
		revoked: make(map[string]time.Time),
	}
}

func (s *TokenService) Generate(userID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, expiry and the revocation set. A token that is
// cryptographically fine but revoked is still invalid.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if s.IsRevoked(tokenString) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke blacklists a raw token until its natural expiry.
func (s *TokenService) Revoke(tokenString string) {
	expiry := time.Now().Add(TokenTTL)
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err == nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenString] = expiry
}

func (s *TokenService) IsRevoked(tokenString string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenString]
	return ok
}

// sweep drops revocation entries whose token already expired on its own.
func (s *TokenService) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int
	for token, expiry := range s.revoked {
		if expiry.Before(now) {
			delete(s.revoked, token)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("token cleanup: dropped %d expired revocations", removed)
	}
}

// StartCleanup runs the revocation sweep periodically.
func (s *TokenService) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			s.sweep()
		}
	}()
}
