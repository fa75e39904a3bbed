// Package token issues and validates the signed session tokens that scope
// every request to one universe.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
)

// Claims are the session token claims. UniverseID scopes the session and
// AdminID names the acting root member.
type Claims struct {
	UniverseID string `json:"universe_id"`
	AdminID    string `json:"admin_id"`
	jwt.RegisteredClaims
}

// Service handles session token creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey string, issuer string, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// IssueSessionToken signs a token binding the session to one universe.
func (s *Service) IssueSessionToken(
	universeID id.UniverseID,
	adminID id.MemberID,
	expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UniverseID: universeID.String(),
		AdminID:    adminID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken parses and verifies a session token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// Scope resolves the typed ids out of validated claims.
func (c *Claims) Scope() (id.UniverseID, id.MemberID, error) {
	universeID, err := id.ParseUniverseID(c.UniverseID)
	if err != nil {
		return id.UniverseID{}, id.MemberID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	adminID, err := id.ParseMemberID(c.AdminID)
	if err != nil {
		return id.UniverseID{}, id.MemberID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return universeID, adminID, nil
}
