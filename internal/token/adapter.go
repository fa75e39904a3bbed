package token

import (
	"nachlass/internal/platform/middleware"
)

// ServiceAdapter bridges the token service to the auth middleware's
// validator port.
type ServiceAdapter struct {
	service *Service
}

func NewServiceAdapter(service *Service) *ServiceAdapter {
	return &ServiceAdapter{service: service}
}

func (a *ServiceAdapter) ValidateToken(tokenString string) (*middleware.SessionClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	universeID, adminID, err := claims.Scope()
	if err != nil {
		return nil, err
	}
	return &middleware.SessionClaims{
		UniverseID: universeID,
		AdminID:    adminID,
	}, nil
}
