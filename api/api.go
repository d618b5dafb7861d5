package api

import (
	"errors"
	"fmt"
	"time"

	"dipbacktest/internal/app"
	"dipbacktest/internal/domain"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	AnalysisService app.AnalysisService
	Logger          *zap.SugaredLogger
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to dipbacktest"})
	})
	router.POST("/analyze", m.analyze)

	return router.Run(fmt.Sprintf(":%d", port))
}

// returnErrorJson sends the single user-facing error body. Failed
// requests carry only the error field, never partial results.
func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, statusCodeFor(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return 400
	case errors.Is(err, domain.ErrUnknownTicker):
		return 404
	case errors.Is(err, domain.ErrInsufficientHistory):
		return 422
	case errors.Is(err, domain.ErrUpstreamFetch):
		return 502
	}
	return 500
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.NewString()
	start := time.Now().UTC()

	ctx.Next()

	m.Logger.Infow("handled request",
		"requestId", requestID,
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
		"clientIp", ctx.ClientIP(),
	)
}
