package api

import (
	"context"
	"fmt"
	"strings"

	"dipbacktest/internal/domain"
	"dipbacktest/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type analyzeRequest struct {
	Ticker             string  `json:"ticker"`
	Amount             float64 `json:"amount"`
	Frequency          string  `json:"frequency"`
	Timeline           int     `json:"timeline"`
	TrailingPercentage float64 `json:"trailingPercentage"`
}

func (m ApiHandler) analyze(c *gin.Context) {
	ctx := context.WithValue(c.Request.Context(), logger.ContextKey, m.Logger)

	var requestBody analyzeRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(fmt.Errorf("%w: %s", domain.ErrInvalidParameter, err.Error()), c)
		return
	}

	params := domain.Parameters{
		Ticker:             strings.ToUpper(strings.TrimSpace(requestBody.Ticker)),
		Amount:             decimal.NewFromFloat(requestBody.Amount),
		Frequency:          domain.Frequency(requestBody.Frequency),
		TimelineMonths:     requestBody.Timeline,
		TrailingPercentage: decimal.NewFromFloat(requestBody.TrailingPercentage),
	}

	result, err := m.AnalysisService.Run(ctx, params)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}
