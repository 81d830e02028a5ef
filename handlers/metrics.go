package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"chime/models"
	"chime/services/reminder"
	"chime/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const metricsCacheKey = "metrics:snapshot"
const metricsCacheTTL = 30 * time.Second

// MetricsHandler serves the engine metrics snapshot, briefly cached in
// redis so dashboard polling does not rescan history on every request.
type MetricsHandler struct {
	Service reminder.ReminderService
	Cache   *redis.Client
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	ctx := context.Background()

	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, metricsCacheKey).Result(); err == nil {
			var snap models.MetricsSnapshot
			if err := json.Unmarshal([]byte(cached), &snap); err == nil {
				c.JSON(http.StatusOK, snap)
				return
			}
		}
	}

	snap, err := h.Service.Metrics()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute metrics", err.Error())
		return
	}

	if h.Cache != nil {
		if data, err := json.Marshal(snap); err == nil {
			h.Cache.Set(ctx, metricsCacheKey, data, metricsCacheTTL)
		}
	}
	c.JSON(http.StatusOK, snap)
}
