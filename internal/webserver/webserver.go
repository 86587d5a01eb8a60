package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/storemom/config"
	"github.com/talkincode/storemom/pkg/common"
)

// ContextKeyDB is the echo context key holding the request-scoped *gorm.DB.
const ContextKeyDB = "storemom_db"

type WebContext struct {
	root   *echo.Echo
	api    *echo.Group
	config *config.AppConfig
}

var server *WebContext

// jsonSerializer plugs json-iterator into echo.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsoniter.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

// Init builds the echo server. Routes are registered afterwards through the
// Api* helpers (see adminapi.InitRouter).
func Init(cfg *config.AppConfig, db *gorm.DB) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())
	e.Use(injectDB(db))
	e.Use(zapLogger())

	server = &WebContext{
		root:   e,
		api:    e.Group("/api"),
		config: cfg,
	}
}

// injectDB makes the database handle available to handlers via GetDB.
func injectDB(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyDB, db)
			return next(c)
		}
	}
}

// zapLogger logs every request with a generated request id.
func zapLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqid := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqid == "" {
				reqid = common.UUID()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqid)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			zap.L().Info("http request",
				zap.String("namespace", "web"),
				zap.String("request_id", reqid),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.String("remote_ip", c.RealIP()),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}

// Listen starts the HTTP listener and blocks until it fails or is shut down.
func Listen() error {
	addr := fmt.Sprintf("%s:%d", server.config.Web.Host, server.config.Web.Port)
	zap.L().Info("starting web server", zap.String("namespace", "web"), zap.String("listen", addr))
	server.root.Server.ReadTimeout = 30 * time.Second
	server.root.Server.WriteTimeout = 30 * time.Second
	server.root.Server.IdleTimeout = 90 * time.Second
	return server.root.Start(addr)
}

// Shutdown stops the HTTP listener gracefully.
func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.root.Shutdown(ctx)
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
