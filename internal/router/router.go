// Package router wires repositories, services and handlers into an echo
// instance and registers the routes.
package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/facility-desk/internal/config"
	"github.com/iliyamo/facility-desk/internal/database"
	"github.com/iliyamo/facility-desk/internal/handler"
	"github.com/iliyamo/facility-desk/internal/middleware"
	"github.com/iliyamo/facility-desk/internal/repository"
	"github.com/iliyamo/facility-desk/internal/service"
	"github.com/iliyamo/facility-desk/internal/utils"
)

// Deps are the long-lived resources the routes need.  Redis may be nil, in
// which case rate limiting and response caching are off.
type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	Gateway *database.Gateway
	Redis   *redis.Client
}

// New builds the echo instance with global middleware and every route.
func New(d Deps) (*echo.Echo, error) {
	hasher, err := utils.NewPasswordHasher(d.Config.PasswordMode, d.Config.BcryptCost)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Metrics())
	e.Use(requestLogger(d.Log))
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit("1M"))

	tickets := service.NewTicketService(repository.NewTicketRepo(d.Gateway), d.Log)
	accounts := service.NewAccountService(repository.NewAccountRepo(d.Gateway), hasher, d.Log)

	expose := d.Config.ExposeStoreErrors
	th := handler.NewTicketHandler(tickets, middleware.NewCachePurger(d.Config.Cache, d.Redis), d.Log, expose)
	ah := handler.NewAccountHandler(accounts, d.Log, expose)
	ph := handler.NewPersonHandler(repository.NewPersonRepo(d.Gateway), d.Log, expose)

	cache := middleware.NewRedisCache(d.Config.Cache, d.Redis, d.Log)
	limit := middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Log)

	e.GET("/healthz", handler.Health(d.Gateway))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/insert", ph.Insert)
	e.GET("/people", th.People, cache)
	e.GET("/person/:id", ah.GetPerson, cache)
	e.POST("/register", ah.Register, limit)
	e.POST("/login", ah.Login, limit)
	e.POST("/close-ticket", th.CloseTicket)
	e.POST("/assign", th.Assign)

	return e, nil
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
