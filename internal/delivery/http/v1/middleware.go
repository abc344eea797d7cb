package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

const userCtxKey = "user"

// HandleAuthMiddleware puts the caller into the context. With sign-in
// disabled every request runs as the default user.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	if !h.identity.Enabled() {
		c.Set(userCtxKey, h.identity.DefaultUser())
		c.Next()
		return
	}

	token := bearerToken(c)
	if token == "" {
		token, _ = c.Cookie(accessTokenCookie)
	}
	if token == "" {
		h.logger.Debug().Msg("no access token")
		abort(c, newUnauthorizedError(errUnauthenticated.Error()))
		return
	}

	user, err := h.identity.ParseAccessToken(token)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse access token")
		abort(c, newUnauthorizedError(errUnauthenticated.Error()))
		return
	}

	c.Set(userCtxKey, *user)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	const bearerPrefix = "Bearer"
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		return ""
	}
	return parts[1]
}

func userFromContext(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(userCtxKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

func (h *handlerImpl) mustUser(c *gin.Context) (models.User, bool) {
	user, ok := userFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	return user, ok
}
