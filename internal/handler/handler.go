package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/dmorgan81/gabu/internal/config"
	"github.com/dmorgan81/gabu/internal/log"
	"github.com/dmorgan81/gabu/internal/relay"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const defaultMaxBodyBytes = 10 << 20

type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Handler serves the relay over HTTP. It is an http.Handler so the same
// routes back both the standalone server and the Lambda adapter.
type Handler struct {
	relay   *relay.Relay
	logger  *slog.Logger
	maxBody int64
	engine  *gin.Engine
	lambda  *httpadapter.HandlerAdapterV2
}

func NewHandler(i *do.Injector) (*Handler, error) {
	cfg := do.MustInvoke[config.Config](i)
	return New(do.MustInvoke[*relay.Relay](i), do.MustInvoke[*slog.Logger](i), Options{
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}), nil
}

func New(r *relay.Relay, logger *slog.Logger, opts Options) *Handler {
	gin.SetMode(gin.ReleaseMode)

	h := &Handler{
		relay:   r,
		logger:  logger,
		maxBody: lo.Ternary(opts.MaxBodyBytes > 0, opts.MaxBodyBytes, defaultMaxBodyBytes),
		engine:  gin.New(),
	}

	h.engine.Use(h.requestLogger(), h.recovery(), cors.New(corsConfig(opts.AllowedOrigins)))
	h.engine.GET("/health", h.health)
	h.engine.POST("/upload", h.upload)
	h.lambda = httpadapter.NewV2(h)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.engine.ServeHTTP(w, r)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || lo.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger := h.logger.WithGroup("http").With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Request = c.Request.WithContext(log.NewContext(c.Request.Context(), logger))

		c.Next()

		logger.Info("handled request",
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.FromContextOrDiscard(c.Request.Context()).Error("recovered from panic", "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": relay.UploadFailed.Message()})
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) upload(c *gin.Context) {
	ctx := c.Request.Context()
	logger := log.FromContextOrDiscard(ctx)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)

	var req relay.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Info("rejected upload body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": relay.InvalidPayload.Message()})
		return
	}

	res, err := h.relay.Upload(ctx, req)
	if err != nil {
		kind := relay.UploadFailed
		var rerr *relay.Error
		if errors.As(err, &rerr) {
			kind = rerr.Kind
		}
		if kind == relay.InvalidPayload {
			logger.Info("rejected upload", "error", err)
		} else {
			logger.Error("upload failed", "error", err)
		}
		c.JSON(kind.Status(), gin.H{"error": kind.Message()})
		return
	}

	c.JSON(http.StatusOK, res)
}
