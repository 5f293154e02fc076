package controller

import (
	"net/http"

	"github.com/relayforge/gateway-console/config"
	"github.com/relayforge/gateway-console/console/locale"
	"github.com/relayforge/gateway-console/console/session"

	"github.com/gin-gonic/gin"
)

// IndexController serves the shell page for every non-/app path. The
// shell takes over routing from there via /app/state.
type IndexController struct{}

// NewIndexController creates the controller; the shell page is registered
// as the router's fallback so deep links load it directly.
func NewIndexController(engine *gin.Engine) *IndexController {
	a := &IndexController{}
	engine.NoRoute(a.shell)
	return a
}

func (a *IndexController) shell(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.HTML(http.StatusOK, "console.html", gin.H{
		"title":    locale.I18n("shell.title"),
		"cur_ver":  config.GetVersion(),
		"lastPath": session.GetLastPath(c),
	})
}
