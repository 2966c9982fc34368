package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Modes
const (
	ModeNone = "none" // no authentication, API open
	ModeDev  = "dev"  // tokens parsed without signature check, dev user when absent
	ModeOIDC = "oidc" // tokens verified against the issuer's JWKS
)

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey string

const UserContextKey contextKey = "user"

// DevUser is the identity used in dev mode when no token is sent
var DevUser = Claims{
	Email: "dev@callboard.local",
	Name:  "Dev User",
	Role:  "admin",
}

// Authenticator validates bearer tokens according to its mode
type Authenticator struct {
	mode    string
	keyfunc jwt.Keyfunc
	now     func() time.Time
	logger  zerolog.Logger
}

// NewAuthenticator builds an authenticator. In oidc mode the JWKS is fetched
// from the Keycloak-style certs endpoint under issuer and refreshed in the
// background until ctx ends.
func NewAuthenticator(ctx context.Context, mode, issuer string, logger zerolog.Logger) (*Authenticator, error) {
	a := &Authenticator{
		mode:   mode,
		now:    time.Now,
		logger: logger.With().Str("component", "auth").Logger(),
	}

	switch mode {
	case ModeNone, ModeDev:
		return a, nil
	case ModeOIDC:
		jwksURL := strings.TrimSuffix(issuer, "/") + "/protocol/openid-connect/certs"
		a.logger.Info().Str("jwks_url", jwksURL).Msg("fetching JWKS")

		k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create keyfunc: %w", err)
		}
		a.keyfunc = k.Keyfunc
		return a, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
}

// Middleware validates the request token and stores the claims in the context
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.mode == ModeNone {
			next.ServeHTTP(w, r)
			return
		}

		tokenString := extractToken(r)
		if tokenString == "" && a.mode == ModeDev {
			dev := DevUser
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserContextKey, &dev)))
			return
		}
		if tokenString == "" {
			a.logger.Debug().Msg("missing authorization token")
			unauthorized(w, "missing token")
			return
		}

		claims, err := a.validateToken(tokenString)
		if err != nil {
			a.logger.Warn().Err(err).Msg("token validation failed")
			unauthorized(w, err.Error())
			return
		}

		a.logger.Debug().Str("email", claims.Email).Str("role", claims.Role).Msg("user authenticated")

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized: " + reason})
}

// extractToken gets the token from Authorization header or query parameter
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
	}

	// Query parameter for WebSocket connections
	return r.URL.Query().Get("token")
}

func (a *Authenticator) validateToken(tokenString string) (*Claims, error) {
	var (
		token *jwt.Token
		err   error
	)

	if a.mode == ModeOIDC {
		token, err = jwt.Parse(tokenString, a.keyfunc,
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}),
			jwt.WithTimeFunc(a.now),
		)
		if err != nil {
			return nil, fmt.Errorf("token verification failed: %w", err)
		}
	} else {
		token, _, err = jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	claims := &Claims{Role: extractRole(mapClaims)}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.Name = name
	} else if preferredUsername, ok := mapClaims["preferred_username"].(string); ok {
		claims.Name = preferredUsername
	}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}

	// Unverified tokens still honour exp
	if a.mode != ModeOIDC {
		if exp, ok := mapClaims["exp"].(float64); ok {
			expTime := time.Unix(int64(exp), 0)
			claims.ExpiresAt = jwt.NewNumericDate(expTime)
			if expTime.Before(a.now()) {
				return nil, fmt.Errorf("token expired")
			}
		}
	}

	return claims, nil
}

// extractRole reads the highest Keycloak realm role, or a Cognito group
func extractRole(mapClaims jwt.MapClaims) string {
	if realmAccess, ok := mapClaims["realm_access"].(map[string]interface{}); ok {
		if roles, ok := realmAccess["roles"].([]interface{}); ok {
			for _, priority := range []string{"admin", "analyst", "viewer"} {
				for _, role := range roles {
					if roleStr, ok := role.(string); ok && roleStr == priority {
						return roleStr
					}
				}
			}
		}
	}

	if groups, ok := mapClaims["cognito:groups"].([]interface{}); ok {
		for _, group := range groups {
			if groupStr, ok := group.(string); ok {
				if strings.Contains(groupStr, "admin") {
					return "admin"
				}
				if strings.Contains(groupStr, "analyst") {
					return "analyst"
				}
			}
		}
	}

	return "viewer"
}

// GetUserFromContext retrieves user claims from request context
func GetUserFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	return claims, ok
}
