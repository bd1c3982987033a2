package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/npthao/examhub/config"
	"github.com/npthao/examhub/internal/dto"
	"github.com/rs/zerolog/log"
)

const userIDKey = "auth_user_id"

// RequireAuth validates the Bearer token and stores the authenticated user
// id in the gin context for handlers to read via CurrentUser.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			abortUnauthorized(ctx, "Missing or malformed Authorization header")
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.Debug().Err(err).Msg("Rejected invalid token")
			abortUnauthorized(ctx, "Invalid or expired token")
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			abortUnauthorized(ctx, "Token has no subject")
			return
		}

		ctx.Set(userIDKey, subject)
		ctx.Next()
	}
}

// CurrentUser returns the authenticated user id, or "" when the request
// did not pass through RequireAuth.
func CurrentUser(ctx *gin.Context) string {
	if v, ok := ctx.Get(userIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: message})
}
