package controller

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/offentlig-fagnett/backend/service"
)

const sessionKey = "session"

// sessionClaims is the token the web frontend mints after Slack OIDC login.
type sessionClaims struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// RequireSession verifies the bearer token (or session cookie) and stores the
// session on the gin context.
func RequireSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			abortWithError(ctx, apperror.Unauthorized("missing session token"))
			return
		}

		var claims sessionClaims
		_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("SESSION_JWT_SECRET")), nil
		})
		if err != nil || claims.Subject == "" {
			abortWithError(ctx, apperror.Unauthorized("invalid session token"))
			return
		}

		ctx.Set(sessionKey, entity.Session{
			SlackUserID: claims.Subject,
			Name:        claims.Name,
			Admin:       claims.Admin,
		})
		ctx.Next()
	}
}

// RequireAdmin accepts sessions whose token carries the admin flag, or whose
// user is a member of the admin Slack usergroup.
func RequireAdmin(slackService *service.SlackService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session := SessionFrom(ctx)
		if session.Admin {
			ctx.Next()
			return
		}

		isAdmin, err := slackService.IsAdmin(ctx.Request.Context(), session.SlackUserID)
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		if !isAdmin {
			abortWithError(ctx, apperror.Forbidden("admin access required"))
			return
		}

		ctx.Next()
	}
}

func SessionFrom(ctx *gin.Context) entity.Session {
	session, _ := ctx.Get(sessionKey)
	s, _ := session.(entity.Session)
	return s
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return token
	}
	if cookie, err := ctx.Cookie("session"); err == nil {
		return cookie
	}
	return ""
}
