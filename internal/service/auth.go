package service

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// AuthService validates credentials and issues/verifies session tokens.
// Accounts live in memory only; a restart clears them.
type AuthService struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
	secret   []byte
	ttl      time.Duration
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		accounts: make(map[string]*model.Account),
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

func (s *AuthService) Register(accountID, password, broker string) (*model.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; ok {
		return nil, apperrors.NewInvalidRequest("account already exists")
	}
	acc := &model.Account{ID: accountID, Broker: broker, PasswordHash: hash}
	s.accounts[accountID] = acc
	return acc, nil
}

// ValidateCredential resolves an account/password pair to an Identity.
// The error message is identical for unknown accounts and wrong passwords.
func (s *AuthService) ValidateCredential(accountID, secret string) (model.Identity, error) {
	s.mu.RLock()
	acc, ok := s.accounts[accountID]
	s.mu.RUnlock()

	if !ok {
		return model.Identity{}, apperrors.NewAuthFailed("invalid account or password")
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(secret)); err != nil {
		return model.Identity{}, apperrors.NewAuthFailed("invalid account or password")
	}
	return acc.Identity(), nil
}

type tokenClaims struct {
	Broker string `json:"broker"`
	jwt.RegisteredClaims
}

func (s *AuthService) IssueToken(id model.Identity) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Broker: id.Broker,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err)
	}
	return token, nil
}

func (s *AuthService) VerifyToken(tokenString string) (model.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return model.Identity{}, apperrors.New(apperrors.ErrAuthFailed, "invalid or expired token", err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.Subject == "" {
		return model.Identity{}, apperrors.NewAuthFailed("malformed token claims")
	}
	return model.Identity{AccountID: claims.Subject, Broker: claims.Broker}, nil
}
