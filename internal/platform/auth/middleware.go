package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

const (
	CtxAccountKey = "account"
	CtxUserIDKey  = "user_id"
	CtxRoleKey    = "role"
	CtxSessionKey = "session_id"
)

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apierr.ToHTTPStatus(err), apierr.BodyFromErr(err))
}

// RequireAuth: verifies "Authorization: Bearer <token>", runs the session
// policy and stores the freshly loaded account in the gin context.
func RequireAuth(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abort(c, apierr.ErrUnauthorized("missing Authorization header"))
			return
		}
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abort(c, apierr.ErrUnauthorized("invalid Authorization header"))
			return
		}

		claims, err := svc.parseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abort(c, apierr.ErrUnauthorized("invalid token"))
			return
		}

		acct, err := svc.Policy().CurrentSession(c.Request.Context(), claims.SessionID)
		if err != nil {
			svc.log.ErrorContext(c.Request.Context(), "session lookup failed", "err", err)
			abort(c, apierr.Persistence(err))
			return
		}
		if acct == nil || acct.UserID != claims.UserID {
			abort(c, apierr.ErrUnauthorized("Session expired. Please log in again."))
			return
		}

		c.Set(CtxAccountKey, acct)
		c.Set(CtxUserIDKey, acct.UserID)
		c.Set(CtxRoleKey, acct.Role)
		c.Set(CtxSessionKey, claims.SessionID)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		acct, _ := AccountFrom(c)
		if !Authorize(acct, role) {
			abort(c, apierr.ErrForbidden("forbidden"))
			return
		}
		c.Next()
	}
}

func AccountFrom(c *gin.Context) (*Account, bool) {
	v, ok := c.Get(CtxAccountKey)
	if !ok {
		return nil, false
	}
	acct, ok := v.(*Account)
	return acct, ok && acct != nil
}

// UserIDFrom returns 0 when the request is unauthenticated.
func UserIDFrom(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}

func SessionIDFrom(c *gin.Context) string {
	return c.GetString(CtxSessionKey)
}
