package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"outreach_admin/internal/models"
)

// ErrInvalidInvite covers expired, malformed, or mis-signed invite tokens.
var ErrInvalidInvite = errors.New("invalid or expired invite")

const defaultInviteTTL = 72 * time.Hour

// InviteService issues signed registration invites carrying the granted role.
type InviteService struct {
	signingKey []byte
	ttl        time.Duration
}

func NewInviteService(signingKey string, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = defaultInviteTTL
	}
	return &InviteService{signingKey: []byte(signingKey), ttl: ttl}
}

var _ Invites = (*InviteService)(nil)

// inviteClaims defines the invite token payload.
type inviteClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Issue signs a time-limited invite granting the given role on registration.
func (s *InviteService) Issue(role models.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &inviteClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: string(role),
	})
	return token.SignedString(s.signingKey)
}

// Parse validates an invite token and returns the role it grants.
func (s *InviteService) Parse(tokenStr string) (models.Role, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &inviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", ErrInvalidInvite
	}
	claims, ok := token.Claims.(*inviteClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidInvite
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return "", ErrInvalidInvite
	}
	return role, nil
}
