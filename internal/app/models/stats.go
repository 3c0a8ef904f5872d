package models

type ServiceStats struct {
	TotalConsultations  int64   `json:"total_consultations"`
	EmergencyCount      int64   `json:"emergency_count"`
	AverageProcessingMs float64 `json:"average_processing_ms"`
}
