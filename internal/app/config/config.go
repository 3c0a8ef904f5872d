package config

import (
	"medichat-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medichat"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Ollama: Ollama{
			BaseUrl: utils.GetEnvString("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", "development"),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                 utils.GetEnvString("APP_TIMEZONE", "Asia/Bangkok"),
			EndpointPrefix:           utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
		},
		Models: Models{
			TranslationModel:           utils.GetEnvString("MODELS_TRANSLATION", "seallm-7b-v2"),
			DiagnosisModel:             utils.GetEnvString("MODELS_DIAGNOSIS", "medllama2"),
			InstructionGenerationModel: utils.GetEnvString("MODELS_INSTRUCTION_GENERATION", "medllama2"),
			RequestTimeoutInSeconds:    utils.GetEnvInt("MODELS_REQUEST_TIMEOUT_IN_SECONDS", 30),
			MaxRetries:                 utils.GetEnvInt("MODELS_MAX_RETRIES", 2),
			InvokesPerSecond:           utils.GetEnvFloat("MODELS_INVOKES_PER_SECOND", 5),
			InvokeBurst:                utils.GetEnvInt("MODELS_INVOKE_BURST", 10),
		},
		Pipeline: Pipeline{
			SourceDialect:           utils.GetEnvString("PIPELINE_SOURCE_DIALECT", "thai_standard"),
			PivotLanguage:           utils.GetEnvString("PIPELINE_PIVOT_LANGUAGE", "english"),
			SessionLockTTLInSeconds: utils.GetEnvInt("PIPELINE_SESSION_LOCK_TTL_IN_SECONDS", 120),
			SessionHistoryLimit:     utils.GetEnvInt("PIPELINE_SESSION_HISTORY_LIMIT", 50),
			LowConfidenceThreshold:  utils.GetEnvFloat("PIPELINE_LOW_CONFIDENCE_THRESHOLD", 0.4),
			StageTimeoutInSeconds:   utils.GetEnvInt("PIPELINE_STAGE_TIMEOUT_IN_SECONDS", 60),
		},
		Approval: Approval{
			ClaimTimeoutInMinutes: utils.GetEnvInt("APP_APPROVAL_CLAIM_TIMEOUT_IN_MINUTES", 15),
		},
		Knowledge: Knowledge{
			MedicineDataPath:  utils.GetEnvString("KNOWLEDGE_MEDICINE_DATA_PATH", "data/medicines.csv"),
			TreatmentDataPath: utils.GetEnvString("KNOWLEDGE_TREATMENT_DATA_PATH", "data/treatments.csv"),
			DiagnosisDataPath: utils.GetEnvString("KNOWLEDGE_DIAGNOSIS_DATA_PATH", "data/diagnoses.csv"),
		},
		JWT: JWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 8),
		},
		RabbitMQ: AppRabbitMQ{
			NotificationQueue: utils.GetEnvString("APP_RABBITMQ_NOTIFICATION_QUEUE", "consultation_notifications"),
		},
	}
}
