package controller

import (
	"net/http"
	"strconv"

	"github.com/relayforge/gateway-console/console/engine"
	"github.com/relayforge/gateway-console/console/entity"
	"github.com/relayforge/gateway-console/console/locale"
	"github.com/relayforge/gateway-console/console/session"
	"github.com/relayforge/gateway-console/database/model"
	"github.com/relayforge/gateway-console/logger"

	"github.com/gin-gonic/gin"
)

// AdminLoginForm is the admin login request.
type AdminLoginForm struct {
	Password string `json:"password" form:"password"`
}

// UserLoginForm is the user login request.
type UserLoginForm struct {
	Account  string `json:"account" form:"account"`
	Password string `json:"password" form:"password"`
}

// AppController serves the session state and the login, logout, and
// notice actions consumed by the shell.
type AppController struct {
	engine *engine.Engine
}

// NewAppController creates the controller and registers its routes.
func NewAppController(g *gin.RouterGroup, e *engine.Engine) *AppController {
	a := &AppController{engine: e}
	a.initRouter(g)
	return a
}

func (a *AppController) initRouter(g *gin.RouterGroup) {
	g.GET("/state", a.state)
	g.GET("/logs", a.logs)

	g.POST("/login/admin", a.adminLogin)
	g.POST("/login/user", a.userLogin)
	g.POST("/logout/admin", a.adminLogout)
	g.POST("/logout/user", a.userLogout)
	g.POST("/notice/dismiss", a.dismissNotice)
}

// state reconciles the shell-reported path against the session and
// returns the snapshot the shell renders from.
func (a *AppController) state(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = session.GetLastPath(c)
	}

	decision, finalPath := a.engine.View(path)
	if err := session.SetLastPath(c, finalPath); err != nil {
		logger.Debug("failed to remember shell path:", err)
	}

	state := entity.SessionState{
		Decision:       decision.Kind.String(),
		Page:           string(decision.Page),
		Path:           finalPath,
		AdminLoggedIn:  a.engine.Store().Has(model.RoleAdmin),
		UserLoggedIn:   a.engine.Store().Has(model.RoleUser),
		IdentityStatus: a.engine.IdentityStatus().String(),
		Identity:       a.engine.IdentityUser(),
		Version:        a.engine.Version(),
	}

	if cfg := a.engine.SiteConfig(); cfg != nil {
		state.SiteResolved = true
		state.SiteMode = string(cfg.Mode)
		state.Registration = string(cfg.Registration)
		state.ExternalLoginEnabled = cfg.ExternalLoginEnabled
		state.RequireInviteCode = cfg.RequireInviteCode
	}

	if text, show := a.engine.Announcement(); show {
		state.ShowAnnouncement = true
		state.Announcement = text
	}

	obj := gin.H{"state": state}
	if flashes := session.TakeFlashes(c); len(flashes) > 0 {
		obj["notices"] = flashes
	}
	jsonObj(c, obj, nil)
}

func (a *AppController) adminLogin(c *gin.Context) {
	var form AdminLoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, locale.I18n("toasts.invalidFormData"))
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, locale.I18n("toasts.emptyPassword"))
		return
	}

	if err := a.engine.AdminLogin(c.Request.Context(), form.Password); err != nil {
		logger.Warningf("admin login failed, IP: %q: %v", getRemoteIp(c), err)
		pureJsonMsg(c, http.StatusOK, false, locale.I18n("toasts.adminLoginFailed", "Reason=="+err.Error()))
		return
	}

	logger.Infof("admin logged in successfully, IP: %q", getRemoteIp(c))
	jsonMsg(c, locale.I18n("toasts.adminLoginSuccess"), nil)
}

func (a *AppController) userLogin(c *gin.Context) {
	var form UserLoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, locale.I18n("toasts.invalidFormData"))
		return
	}
	if form.Account == "" {
		pureJsonMsg(c, http.StatusOK, false, locale.I18n("toasts.emptyAccount"))
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, locale.I18n("toasts.emptyPassword"))
		return
	}

	if err := a.engine.UserLogin(c.Request.Context(), form.Account, form.Password); err != nil {
		logger.Warningf("user login failed for %q, IP: %q: %v", form.Account, getRemoteIp(c), err)
		pureJsonMsg(c, http.StatusOK, false, locale.I18n("toasts.userLoginFailed", "Reason=="+err.Error()))
		return
	}

	logger.Infof("user %q logged in successfully, IP: %q", form.Account, getRemoteIp(c))
	jsonMsg(c, locale.I18n("toasts.userLoginSuccess"), nil)
}

func (a *AppController) adminLogout(c *gin.Context) {
	a.engine.Logout(c.Request.Context(), model.RoleAdmin)
	if err := session.AddFlash(c, locale.I18n("toasts.loggedOut")); err != nil {
		logger.Debug("failed to queue logout notice:", err)
	}
	jsonMsg(c, locale.I18n("toasts.loggedOut"), nil)
}

func (a *AppController) userLogout(c *gin.Context) {
	a.engine.Logout(c.Request.Context(), model.RoleUser)
	if err := session.AddFlash(c, locale.I18n("toasts.loggedOut")); err != nil {
		logger.Debug("failed to queue logout notice:", err)
	}
	jsonMsg(c, locale.I18n("toasts.loggedOut"), nil)
}

func (a *AppController) dismissNotice(c *gin.Context) {
	a.engine.DismissAnnouncement()
	jsonMsg(c, locale.I18n("toasts.noticeDismissed"), nil)
}

// logs returns recent entries from the console's in-memory log buffer.
func (a *AppController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
	if err != nil || count <= 0 {
		count = 50
	}
	level := c.DefaultQuery("level", "INFO")
	jsonObj(c, logger.GetLogs(count, level), nil)
}
