package handlers

import (
	"net/http"

	"energy-market/internal/api/models"
	"energy-market/internal/model"
	"energy-market/internal/strategy"

	"github.com/gin-gonic/gin"
)

// ListStrategies handles GET /api/v1/strategies
func ListStrategies(c *gin.Context) {
	resp := models.StrategiesResponse{}
	for _, s := range strategy.Available() {
		resp.Strategies = append(resp.Strategies, models.StrategyInfo{Name: s.Name, Description: s.Description})
	}
	for _, p := range model.BatteryPolicies {
		resp.BatteryPolicies = append(resp.BatteryPolicies, string(p))
	}
	for _, m := range model.MatchingModes {
		resp.MatchingModes = append(resp.MatchingModes, string(m))
	}
	c.JSON(http.StatusOK, resp)
}
