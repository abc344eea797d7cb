package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleEvents upgrades to the live board feed.
func (h *handlerImpl) HandleEvents(c *gin.Context) {
	if h.events == nil {
		abort(c, newStatusTextError(http.StatusNotFound))
		return
	}
	h.events.ServeHTTP(c.Writer, c.Request)
}
