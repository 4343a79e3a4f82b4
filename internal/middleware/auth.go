package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/bignash/datahub/internal/services"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	// AccountIDKey holds the authenticated account id in the request context
	AccountIDKey contextKey = "accountID"
	RoleKey      contextKey = "role"
)

// Operator roles carried in the token's role claim
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

var errInvalidToken = errors.New("invalid token")

// AccountIDFromContext returns the account id set by Authenticate
func AccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDKey).(string)
	return accountID, ok && accountID != ""
}

// WithAccountID is used by tests and internal callers that bypass the token check
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

// RoleFromContext returns the role claim set by Authenticate, empty for
// ordinary wallet holders
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}

// AuthMiddleware verifies bearer tokens issued by the identity service.
// Tokens listed under blacklist:<token> in Redis are rejected.
type AuthMiddleware struct {
	secretKey []byte
	redis     *redis.Client
}

func NewAuthMiddleware(secretKey string, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		secretKey: []byte(secretKey),
		redis:     redisClient,
	}
}

func (a *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			services.SendErrorResponse(w, "Authorization header required", http.StatusUnauthorized, nil)
			return
		}

		// Extract token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			services.SendErrorResponse(w, "Invalid authorization header format", http.StatusUnauthorized, nil)
			return
		}

		token := parts[1]

		if a.redis != nil {
			revoked, err := a.redis.Exists(r.Context(), fmt.Sprintf("blacklist:%s", token)).Result()
			if err != nil {
				log.Printf("[AUTH] Blacklist lookup failed: %v", err)
			} else if revoked > 0 {
				services.SendErrorResponse(w, "Token has been revoked", http.StatusUnauthorized, nil)
				return
			}
		}

		accountID, role, err := a.validateToken(token)
		if err != nil {
			services.SendErrorResponse(w, "Invalid token", http.StatusUnauthorized, nil)
			return
		}

		ctx := WithRole(WithAccountID(r.Context(), accountID), role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole admits only callers whose token carries one of roles. It must
// run after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			for _, allowed := range roles {
				if role != "" && role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			accountID, _ := AccountIDFromContext(r.Context())
			log.Printf("[AUTH] Account %s with role %q denied %s %s", accountID, role, r.Method, r.URL.Path)
			services.SendErrorResponse(w, "Forbidden", http.StatusForbidden, nil)
		})
	}
}

func (a *AuthMiddleware) validateToken(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return a.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return "", "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errInvalidToken
	}

	accountID, ok := claims["user_id"].(string)
	if !ok || accountID == "" {
		return "", "", errInvalidToken
	}
	role, _ := claims["role"].(string)
	return accountID, role, nil
}

// SecurityHeaders sets the response headers every API reply carries
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
