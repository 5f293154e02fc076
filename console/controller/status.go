package controller

import (
	"github.com/relayforge/gateway-console/console/engine"
	"github.com/relayforge/gateway-console/console/service"

	"github.com/gin-gonic/gin"
)

// StatusController reports host statistics for the shell's status screen.
type StatusController struct {
	engine        *engine.Engine
	serverService service.ServerService
}

// NewStatusController creates the controller and registers its routes.
func NewStatusController(g *gin.RouterGroup, e *engine.Engine) *StatusController {
	a := &StatusController{engine: e}
	g.GET("/status", a.status)
	return a
}

func (a *StatusController) status(c *gin.Context) {
	status := a.serverService.GetStatus(a.engine.Client().BaseURL())
	jsonObj(c, status, nil)
}
