// Package console provides the HTTP server of the gateway console: the
// embedded shell page, the /app API consumed by it, and the scheduled
// background jobs.
package console

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/relayforge/gateway-console/config"
	"github.com/relayforge/gateway-console/console/controller"
	"github.com/relayforge/gateway-console/console/engine"
	"github.com/relayforge/gateway-console/console/job"
	"github.com/relayforge/gateway-console/console/locale"
	"github.com/relayforge/gateway-console/console/service"
	"github.com/relayforge/gateway-console/database"
	"github.com/relayforge/gateway-console/logger"
	"github.com/relayforge/gateway-console/util/common"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

const shellCookieName = "gw-console"

// Server is the console daemon: gin router, session engine, and cron jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	engine *engine.Engine

	index  *controller.IndexController
	app    *controller.AppController
	status *controller.StatusController

	settingService service.SettingService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new console server with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initRouter initializes gin, registers middleware, templates, and
// controllers.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Shell cookie: last path and flash notices
	secret, err := s.settingService.GetSecret()
	if err != nil {
		return nil, err
	}
	maxAge, err := s.settingService.GetSessionMaxAge()
	if err != nil {
		return nil, err
	}
	cookieStore := cookie.NewStore([]byte(secret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge * 60,
		HttpOnly: true,
	})
	router.Use(sessions.Sessions(shellCookieName, cookieStore))

	// gzip, excluding the /app JSON endpoints
	router.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/app/"}),
	))

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}
	funcMap := template.FuncMap{"i18n": func(key string, params ...string) string {
		return locale.I18n(key, params...)
	}}
	router.SetFuncMap(funcMap)

	tpl := template.Must(template.New("").Funcs(funcMap).ParseFS(htmlFS, "html/*.html"))
	router.SetHTMLTemplate(tpl)

	app := router.Group("/app")
	s.app = controller.NewAppController(app, s.engine)
	s.status = controller.NewStatusController(app, s.engine)

	// Everything else is the shell
	s.index = controller.NewIndexController(router)

	return router, nil
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@every 5m", job.NewRecheckIdentityJob(s.engine))
	s.cron.AddJob("@daily", job.NewRotateLogJob())
}

// Start boots the engine and the HTTP server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	loc, err := s.settingService.GetTimeLocation()
	if err != nil {
		return err
	}
	s.cron = cron.New(cron.WithLocation(loc))
	s.cron.Start()

	gatewayURL, err := s.settingService.GetGatewayURL()
	if err != nil {
		return err
	}
	s.engine = engine.New(database.GetDB(), gatewayURL)
	s.engine.Start(s.ctx)

	router, err := s.initRouter()
	if err != nil {
		return err
	}

	listen, err := s.settingService.GetListen()
	if err != nil {
		return err
	}
	port, err := s.settingService.GetPort()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(listen, strconv.Itoa(port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Console running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: router}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the server, engine, and cron.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.engine != nil {
		s.engine.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler.
func (s *Server) GetCron() *cron.Cron { return s.cron }

// Engine returns the session engine.
func (s *Server) Engine() *engine.Engine { return s.engine }
