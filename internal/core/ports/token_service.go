package ports

import (
	"time"

	"github.com/clinicore/emr-system/internal/core/domain"
)

// TokenKind distinguishes the purpose a token was issued for. Verification
// fails unless the token's declared kind matches the kind the call site expects.
type TokenKind string

const (
	TokenAccess            TokenKind = "access"
	TokenRefresh           TokenKind = "refresh"
	TokenPasswordReset     TokenKind = "password_reset"
	TokenEmailVerification TokenKind = "email_verification"
)

// TokenClaims is the decoded, verified content of a token.
type TokenClaims struct {
	Subject    string
	Email      string
	Role       domain.Role
	EmployeeID string
	FullName   string
	Kind       TokenKind
	JTI        string
	ExpiresAt  time.Time
}

// TokenService issues and verifies compact signed tokens. Implementations are
// pure functions of the injected secret and their inputs; no server-side
// session state exists.
type TokenService interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken(user *domain.User) (string, error)
	Issue(user *domain.User, kind TokenKind) (string, error)
	// Verify returns domain.ErrTokenExpired, domain.ErrTokenInvalid, or
	// domain.ErrTokenKindMismatch on failure.
	Verify(token string, expected TokenKind) (*TokenClaims, error)
	// ExtractBearer returns the token from an Authorization header value, or
	// "" unless the header is exactly "Bearer <token>".
	ExtractBearer(header string) string
}
