package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultTokenTTL = 15 * time.Minute
	defaultLeeway   = 30 * time.Second

	// maxLeeway caps the validator's clock-skew tolerance. Anything looser
	// turns the expiry check into a no-op, which is how stolen tokens
	// become replayable forever.
	maxLeeway = 60 * time.Second

	minSecretLen = 32
)

// Claims is the signed claim-set carried by every credential: the registered
// iss/aud/exp/iat/sub plus the tenant and role the principal acts under.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a credential for the given user. The expiry is always bounded
// by the configured TTL; there is no unexpiring token path.
func (s *Service) Issue(user *User) (string, time.Time, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return "", time.Time{}, errors.New("auth: user is required")
	}
	if strings.TrimSpace(user.TenantID) == "" {
		return "", time.Time{}, errors.New("auth: user has no tenant")
	}
	if !user.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("auth: unknown role %q", user.Role)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		TenantID: user.TenantID,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and every claim of a raw credential and builds
// the principal it encodes. Validation is all-or-nothing: signature, issuer,
// audience, expiry and issued-at must all pass or the token is rejected with
// ErrInvalidToken. No partial acceptance, no I/O.
func (s *Service) Verify(token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)

	var claims Claims
	parsed, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Principal{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.TenantID) == "" {
		return Principal{}, ErrInvalidToken
	}
	role := Role(claims.Role)
	if !role.Valid() {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		UserID:   claims.Subject,
		TenantID: claims.TenantID,
		Role:     role,
	}, nil
}
