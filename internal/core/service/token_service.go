package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	shortLivedTTL     = time.Hour // password reset, email verification
)

// tokenClaims is the wire shape of our JWT payload.
type tokenClaims struct {
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Kind       string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed tokens. It is a pure function
// of the injected secret and its inputs; rotating the secret invalidates all
// outstanding tokens.
type TokenService struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenConfig carries the signing configuration, injected once at startup so
// verification logic never reads ambient global state.
type TokenConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenService(cfg TokenConfig) *TokenService {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccessToken signs a short-lived token carrying the user's full identity
// claims.
func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	return s.Issue(user, ports.TokenAccess)
}

// IssueRefreshToken signs a long-lived token carrying only the subject and
// email, plus a jti for revocation bookkeeping.
func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	return s.Issue(user, ports.TokenRefresh)
}

// Issue signs a token of the given kind for the user.
func (s *TokenService) Issue(user *domain.User, kind ports.TokenKind) (string, error) {
	now := s.now()

	claims := tokenClaims{
		Email: user.Email,
		Kind:  string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttlFor(kind))),
			ID:        uuid.NewString(),
		},
	}
	if kind == ports.TokenAccess {
		claims.Role = string(user.Role)
		claims.EmployeeID = user.EmployeeID
		claims.FullName = user.FullName()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates token, then checks that its declared kind
// matches expected. Failures map to domain.ErrTokenExpired,
// domain.ErrTokenInvalid, or domain.ErrTokenKindMismatch.
func (s *TokenService) Verify(token string, expected ports.TokenKind) (*ports.TokenClaims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Kind != string(expected) {
		return nil, domain.ErrTokenKindMismatch
	}

	out := &ports.TokenClaims{
		Subject:    claims.Subject,
		Email:      claims.Email,
		Role:       domain.Role(claims.Role),
		EmployeeID: claims.EmployeeID,
		FullName:   claims.FullName,
		Kind:       ports.TokenKind(claims.Kind),
		JTI:        claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// ExtractBearer returns the token from an Authorization header value. Only the
// exact two-part "Bearer <token>" shape is accepted; anything else is treated
// as no token.
func (s *TokenService) ExtractBearer(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}

func (s *TokenService) ttlFor(kind ports.TokenKind) time.Duration {
	switch kind {
	case ports.TokenRefresh:
		return s.refreshTTL
	case ports.TokenAccess:
		return s.accessTTL
	default:
		return shortLivedTTL
	}
}
