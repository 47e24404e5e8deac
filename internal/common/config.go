package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Bot     BotConfig
	Sheets  SheetsConfig
	OCR     OCRConfig
	Storage StorageConfig
	Queue   QueueConfig
}

// BotConfig holds chat-gateway configuration
type BotConfig struct {
	Token          string
	RosterPath     string
	UpdateTimeout  int
	RequestTimeout time.Duration
}

// SheetsConfig holds remote-ledger configuration
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SheetName       string
	SheetURL        string
	Timezone        string
	RefreshInterval time.Duration
}

// OCRConfig holds recognizer configuration
type OCRConfig struct {
	Tesseract     string
	TesseractLang string
	TessdataDir   string
}

// StorageConfig holds local JSON-blob paths
type StorageConfig struct {
	NotesDir     string
	TempDir      string
	ActivityPath string
	ShiftsPath   string
}

// QueueConfig holds offload-queue sizing
type QueueConfig struct {
	Workers     int
	Size        int
	TaskTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Token:          getEnv("BOT_TOKEN", ""),
			RosterPath:     getEnv("ROSTER_PATH", "roster.yaml"),
			UpdateTimeout:  getEnvAsInt("BOT_UPDATE_TIMEOUT", 30),
			RequestTimeout: getEnvAsDuration("BOT_REQUEST_TIMEOUT", time.Minute),
		},
		Sheets: SheetsConfig{
			CredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", ""),
			SpreadsheetID:   getEnv("SHEET_ID", ""),
			SheetName:       getEnv("SHEET_NAME", "QR Codes"),
			SheetURL:        getEnv("SHEET_URL", ""),
			Timezone:        getEnv("LEDGER_TIMEZONE", "Europe/Moscow"),
			RefreshInterval: getEnvAsDuration("SHEETS_REFRESH_INTERVAL", 12*time.Hour),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_CMD", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "rus+eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
		},
		Storage: StorageConfig{
			NotesDir:     getEnv("NOTES_DIR", "notes"),
			TempDir:      getEnv("TEMP_DIR", "temp"),
			ActivityPath: getEnv("ACTIVITY_PATH", "state/activity.json"),
			ShiftsPath:   getEnv("SHIFTS_PATH", "state/shifts.json"),
		},
		Queue: QueueConfig{
			Workers:     getEnvAsInt("QUEUE_WORKERS", 4),
			Size:        getEnvAsInt("QUEUE_SIZE", 256),
			TaskTimeout: getEnvAsDuration("QUEUE_TASK_TIMEOUT", 3*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return NewAppError("CONFIG_ERROR", "BOT_TOKEN is required", ErrInvalidInput)
	}
	if c.Sheets.CredentialsPath == "" {
		return NewAppError("CONFIG_ERROR", "GOOGLE_CREDENTIALS_PATH is required", ErrInvalidInput)
	}
	if c.Sheets.SpreadsheetID == "" {
		return NewAppError("CONFIG_ERROR", "SHEET_ID is required", ErrInvalidInput)
	}
	if c.Bot.RosterPath == "" {
		return NewAppError("CONFIG_ERROR", "ROSTER_PATH is required", ErrInvalidInput)
	}
	return nil
}
