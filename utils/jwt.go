package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "RestaurantReservations"

// CustomClaims identifies a staff member.
type CustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates staff access tokens and keeps the
// logout blacklist until each token would have expired anyway.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu          sync.RWMutex
	blacklisted map[string]time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
		blacklisted: make(map[string]time.Time),
	}
}

func (m *TokenManager) GenerateToken(userID uint, role string) (string, error) {
	now := m.now()
	claims := &CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken validates signature, expiry and the blacklist.
func (m *TokenManager) ParseToken(tokenString string) (*CustomClaims, error) {
	if m.IsBlacklisted(tokenString) {
		return nil, errors.New("token has been revoked")
	}
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Blacklist revokes a token for the rest of its lifetime.
func (m *TokenManager) Blacklist(tokenString string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklisted[tokenString] = m.now().Add(m.ttl)
	m.pruneLocked()
}

func (m *TokenManager) IsBlacklisted(tokenString string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	expiry, ok := m.blacklisted[tokenString]
	return ok && m.now().Before(expiry)
}

func (m *TokenManager) pruneLocked() {
	now := m.now()
	for token, expiry := range m.blacklisted {
		if now.After(expiry) {
			delete(m.blacklisted, token)
		}
	}
}
