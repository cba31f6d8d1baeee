package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const IdentityKey = "identity"

// Claims is what the identity collaborator signs into the bearer token: who
// the caller is and which role they hold.
type Claims struct {
	UserId string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ParseIdentity validates an HS256 token against the shared secret and
// returns the asserted identity. Unknown roles are refused.
func ParseIdentity(token string, secret string) (Identity, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if !parsed.Valid {
		return Identity{}, ErrMissingIdentity
	}

	identity := Identity{Id: claims.UserId, Name: claims.Name, Role: Role(claims.Role)}
	if identity.Id == "" || !identity.Role.Valid() {
		return Identity{}, ErrMissingIdentity
	}

	return identity, nil
}

// IdentityMiddleware gates every route behind the identity collaborator:
// no valid bearer token, no request.
func IdentityMiddleware(secret string) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()

		header := gctx.GetHeader("Authorization")

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			log.Ctx(ctx).Info().Msg("missing bearer token")
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("missing bearer token", ErrMissingIdentity))

			return
		}

		identity, err := ParseIdentity(token, secret)
		if err != nil {
			log.Ctx(ctx).Info().Err(err).Msg("invalid bearer token")
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("invalid bearer token", err))

			return
		}

		gctx.Set(IdentityKey, identity)
		gctx.Next()
	}
}

// CurrentIdentity reads the identity placed by IdentityMiddleware.
func CurrentIdentity(gctx *gin.Context) (Identity, bool) {
	value, exists := gctx.Get(IdentityKey)
	if !exists {
		return Identity{}, false
	}

	identity, ok := value.(Identity)

	return identity, ok
}
