package controllers

import (
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/dto/responses"
	"medichat-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

type HealthController struct {
	Log       *zap.Logger
	Stats     contracts.StatsRecorder
	Version   string
	startedAt time.Time
}

var (
	healthControllerInstance *HealthController
	onceHealthController     sync.Once
)

func NewHealthController(logger *zap.Logger, statsRecorder contracts.StatsRecorder, internalConfig *config.InternalConfig) *HealthController {
	onceHealthController.Do(func() {
		instance := &HealthController{
			Log:       logger,
			Stats:     statsRecorder,
			Version:   internalConfig.App.Version,
			startedAt: time.Now().UTC(),
		}
		healthControllerInstance = instance
	})
	return healthControllerInstance
}

func (ctrl *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	result := &responses.Health{
		Status:        "ok",
		Version:       ctrl.Version,
		UptimeSeconds: int64(time.Since(ctrl.startedAt).Seconds()),
		Stats:         ctrl.Stats.Snapshot(),
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, result)
}
