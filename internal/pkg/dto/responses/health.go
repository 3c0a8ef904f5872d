package responses

import "medichat-service/internal/app/models"

type Health struct {
	Status        string              `json:"status"`
	Version       string              `json:"version"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	Stats         models.ServiceStats `json:"stats"`
}
