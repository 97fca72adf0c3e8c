package http

import (
	"context"
	"net/http"
	"strings"

	"empi/internal/adapters/in/http/auth"
	"empi/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// bodyLimit leaves room above the largest payment proof.
const bodyLimit = "11M"

// RouterConfig wires the collaborators the router needs besides the server.
type RouterConfig struct {
	Tokens   *auth.Tokens
	Revoked  *auth.RevocationStore
	Logger   zerolog.Logger
	LogLevel string
}

// NewRouter builds the echo instance serving the API, health, metrics and
// swagger endpoints.
func NewRouter(ctx context.Context, s *Server, cfg RouterConfig) (*echo.Echo, error) {
	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}
	if err = RegisterSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLevel(cfg.LogLevel))
	e.HTTPErrorHandler = ErrorHandler(cfg.Logger)

	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		requestLogger(cfg.Logger),
		middleware.BodyLimit(bodyLimit),
	)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", auth.Middleware(cfg.Tokens, cfg.Revoked), validator)
	staff := auth.RequireRole(kernel.RoleAdmin, kernel.RoleLogistics)
	admin := auth.RequireRole(kernel.RoleAdmin)

	api.POST("/orders/regular", s.CreateRegularOrder)
	api.POST("/orders/custom", s.CreateCustomOrder)
	api.GET("/orders", s.GetOrders, staff)
	api.GET("/orders/:number", s.GetOrder)
	api.DELETE("/orders/:number", s.SoftDeleteOrder)
	api.POST("/orders/:number/restore", s.RestoreOrder)
	api.POST("/orders/:number/payment-proof", s.AttachPaymentProof)
	api.POST("/orders/:number/payment/verify", s.VerifyPayment)
	api.POST("/orders/:number/approve", s.ApproveOrder)
	api.POST("/orders/:number/timer", s.SetDeadlineTimer)
	api.POST("/orders/:number/start-production", s.StartProduction)
	api.POST("/orders/:number/ready", s.MarkReady)
	api.POST("/orders/:number/complete", s.CompleteOrder)
	api.POST("/orders/:number/cancel", s.CancelOrder)
	api.POST("/orders/:number/reject", s.RejectOrder)

	api.GET("/orders/:number/quotes", s.GetQuotes)
	api.POST("/orders/:number/quotes", s.SubmitQuote)
	api.POST("/orders/:number/quotes/:quoteId/accept", s.AcceptQuote)

	vatGroup := api.Group("/vat", admin)
	vatGroup.GET("/periods", s.GetVATPeriods)
	vatGroup.GET("/periods/:id", s.GetVATPeriod)
	vatGroup.POST("/periods/:id/status", s.ChangeVATPeriodStatus)
	vatGroup.POST("/rollover", s.RolloverVATPeriod)
	vatGroup.POST("/reconcile", s.ReconcileVATPeriods)

	api.POST("/auth/logout", s.Logout)

	return e, nil
}

// requestLogger logs one line per request and puts a request-scoped logger
// into the request context.
func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	logValues := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := zerolog.Ctx(c.Request().Context()).Info()
			if v.Status >= http.StatusInternalServerError {
				event = zerolog.Ctx(c.Request().Context()).Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		logged := logValues(next)
		return func(c echo.Context) error {
			req := c.Request()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			l := logger.With().Str("request_id", requestID).Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
			return logged(c)
		}
	}
}

func echoLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
