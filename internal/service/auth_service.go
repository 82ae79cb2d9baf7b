package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "vibework/backend/internal/errors"
)

// AuthService exchanges the device passcode for bearer tokens.
// With no passcode hash configured the API is open and Enabled reports false.
type AuthService struct {
	passcodeHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewAuthService(passcodeHash, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		passcodeHash: []byte(strings.TrimSpace(passcodeHash)),
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
	}
}

type TokenResult struct {
	Token     string    `json:"token"`
	DeviceID  string    `json:"deviceId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *AuthService) Enabled() bool {
	return len(s.passcodeHash) > 0
}

// IssueToken checks passcode and signs a token for deviceID. An empty deviceID gets a fresh one.
func (s *AuthService) IssueToken(passcode, deviceID string) (*TokenResult, *apperrors.APIError) {
	if !s.Enabled() {
		return nil, apperrors.NotFound("auth_disabled", "authentication is not configured")
	}
	if passcode == "" {
		return nil, apperrors.BadRequest("invalid_credentials", "passcode is required")
	}
	if bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)) != nil {
		return nil, apperrors.Unauthorized("invalid passcode")
	}

	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   deviceID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperrors.Internal("failed to sign token")
	}
	return &TokenResult{Token: signed, DeviceID: deviceID, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) ParseToken(tokenString string) (string, *apperrors.APIError) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", apperrors.Unauthorized("invalid token")
	}
	if claims.Subject == "" {
		return "", apperrors.Unauthorized("invalid token subject")
	}
	return claims.Subject, nil
}
