package config

type InternalConfig struct {
	App       App
	Models    Models
	Pipeline  Pipeline
	Approval  Approval
	Knowledge Knowledge
	JWT       JWT
	RabbitMQ  AppRabbitMQ
}

type App struct {
	Env                      string
	Port                     string
	Version                  string
	Timezone                 string
	EndpointPrefix           string
	MaxRequests              int
	ShutdownTimeoutInSeconds int
}

// Models holds the task-to-model routing table. Which model serves
// which task is configuration, never caller logic.
type Models struct {
	TranslationModel           string
	DiagnosisModel             string
	InstructionGenerationModel string
	RequestTimeoutInSeconds    int
	MaxRetries                 int
	InvokesPerSecond           float64
	InvokeBurst                int
}

type Pipeline struct {
	SourceDialect           string
	PivotLanguage           string
	SessionLockTTLInSeconds int
	SessionHistoryLimit     int
	LowConfidenceThreshold  float64
	StageTimeoutInSeconds   int
}

type Approval struct {
	ClaimTimeoutInMinutes int
}

type Knowledge struct {
	MedicineDataPath  string
	TreatmentDataPath string
	DiagnosisDataPath string
}

type JWT struct {
	Secret        string
	ExpTimeInHour int
}

type AppRabbitMQ struct {
	NotificationQueue string
}
