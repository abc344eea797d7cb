package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
)

const accessTokenCookie = "access_token"

type userResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.Picture,
	}
}

type signInRequest struct {
	Credential string `json:"credential" form:"credential" binding:"required"`
}

type signInResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

func (h *handlerImpl) HandleGoogleSignIn(c *gin.Context) {
	var req signInRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.identity.SignIn(c, req.Credential)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to sign in")
		switch {
		case errors.Is(err, services.ErrIdentityDisabled):
			abort(c, newNotFoundError(services.ErrIdentityDisabled.Error()))
		case errors.Is(err, services.ErrInvalidCredential):
			abort(c, newUnauthorizedError(services.ErrInvalidCredential.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	setAccessTokenCookie(c, result.AccessToken, time.Until(result.AccessTokenExpiresAt))
	c.JSON(http.StatusOK, signInResponse{
		User:        newUserResponse(result.User),
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessTokenExpiresAt,
	})
}

func (h *handlerImpl) HandleMe(c *gin.Context) {
	user, ok := h.mustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	clearCookie(c, accessTokenCookie)
	c.Status(http.StatusNoContent)
}

func setAccessTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	// httpOnly must be false to allow client-side JavaScript
	// to read the cookie and send it in the Authorization header.
	const secure, httpOnly = false, false
	c.SetCookie(accessTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1,
		"/", "", false, false)
}
