package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/api/problem"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	accountContextKey contextKey = "account_id"
	roleContextKey    contextKey = "account_role"
	nameContextKey    contextKey = "account_name"
)

// SettlementTokenHeader carries the shared secret for the settlement trigger.
const SettlementTokenHeader = "X-Settlement-Token"

// Claims are the bearer token claims. Subject is the account id.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator validates HS256 bearer tokens on operations that declare bearerAuth.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Middleware rejects requests to secured operations without a valid token and
// injects the caller's account id and role into the context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, secured := r.Context().Value(api.BearerAuthScopes).([]string); !secured {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/authorization-header-required"), "", "Authorization header required")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token-format"), "", "Invalid token format")
			return
		}
		claims, err := a.Verify(tokenString)
		if err != nil {
			problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token"), "", "Invalid token")
			return
		}

		ctx := WithAccount(r.Context(), claims.Subject, models.Role(claims.Role))
		ctx = context.WithValue(ctx, nameContextKey, claims.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Verify parses an HS256 token and validates its claims. An empty role is
// treated as user.
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("auth secret is not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role == "" {
		claims.Role = string(models.RoleUser)
	}
	if claims.Subject == "" || !models.Role(claims.Role).Valid() {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// IssueToken signs a token for accountID. Used by tooling and tests.
func (a *Authenticator) IssueToken(accountID string, role models.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// SettlementToken guards operations that declare settlementToken with a shared secret.
func SettlementToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, secured := r.Context().Value(api.SettlementTokenScopes).([]string); !secured {
				next.ServeHTTP(w, r)
				return
			}
			if token == "" {
				problem.Write(w, r, http.StatusServiceUnavailable, problem.Type("settlement/trigger-disabled"), "", "settlement trigger is not configured")
				return
			}
			got := r.Header.Get(SettlementTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				problem.Write(w, r, http.StatusUnauthorized, problem.Type("settlement/invalid-token"), "", "invalid settlement token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithAccount returns ctx carrying an authenticated account.
func WithAccount(ctx context.Context, accountID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, accountContextKey, accountID)
	return context.WithValue(ctx, roleContextKey, role)
}

// AccountIDFromContext returns the authenticated account id.
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(accountContextKey).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the role of the authenticated account.
func RoleFromContext(ctx context.Context) models.Role {
	if v, ok := ctx.Value(roleContextKey).(models.Role); ok {
		return v
	}
	return ""
}

// NameFromContext returns the display name carried by the token.
func NameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(nameContextKey).(string); ok {
		return v
	}
	return ""
}
