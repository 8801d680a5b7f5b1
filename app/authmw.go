package app

import (
	"net/http"

	"community_exchange/db"
	"community_exchange/models"
	"community_exchange/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

const principalKey = "principal"

// SetPrincipal puts the acting caller into the request context. Exported so
// tests can stand in for the session middleware.
func SetPrincipal(c *gin.Context, p models.Principal) { c.Set(principalKey, p) }

// CurrentPrincipal resolves the acting caller of the request. ok is false for
// anonymous callers.
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// AuthRequired resolves the session cookie into a principal and aborts
// anonymous requests. Handlers never read auth state from anywhere else.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在，只查一次
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		SetPrincipal(c, u.Principal())
		c.Next()
	}
}

// StaffOnly gates curation endpoints. Runs after AuthRequired.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !p.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "staff only"})
			return
		}
		c.Next()
	}
}
