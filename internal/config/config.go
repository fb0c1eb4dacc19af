// ABOUTME: Centralized configuration for the askdoc ingestion run and bot
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for askdoc. It is assembled once at process
// start; nothing reads the environment after Load returns.
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Dimension      int
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Postgres settings
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	TableName        string

	// Ingestion settings
	SourceURL     string
	ChunkSize     int
	ChunkOverlap  int
	IngestTimeout time.Duration

	// Bot settings
	TelegramToken string
	TopK          int
}

// Load reads configuration from environment variables and validates the
// mode-independent parts. Mode-specific requirements are checked by
// RequireIngest / RequireServe / RequireMCP.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("ASKDOC_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("ASKDOC_EMBEDDING_MODEL", "text-embedding-3-small"),
		Dimension:      getEnvInt("ASKDOC_EMBEDDING_DIMENSION", 1536),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		TableName:        getEnv("ASKDOC_TABLE_NAME", "askdoc_fragments"),

		SourceURL:     os.Getenv("ASKDOC_SOURCE_URL"),
		ChunkSize:     getEnvInt("ASKDOC_CHUNK_SIZE", 1000),
		ChunkOverlap:  getEnvInt("ASKDOC_CHUNK_OVERLAP", 100),
		IngestTimeout: getEnvDuration("ASKDOC_INGEST_TIMEOUT", 10*time.Minute),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TopK:          getEnvInt("ASKDOC_TOP_K", 4),
	}

	return cfg, cfg.validate()
}

// validate checks the mode-independent invariants, collecting every problem
// into a single error so an operator can fix them in one pass.
func (c *Config) validate() error {
	var problems []string
	if c.ChunkSize <= 0 {
		problems = append(problems, fmt.Sprintf("ASKDOC_CHUNK_SIZE must be positive, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 {
		problems = append(problems, fmt.Sprintf("ASKDOC_CHUNK_OVERLAP must not be negative, got %d", c.ChunkOverlap))
	}
	if c.ChunkSize > 0 && c.ChunkOverlap >= c.ChunkSize {
		problems = append(problems, fmt.Sprintf("ASKDOC_CHUNK_OVERLAP (%d) must be smaller than ASKDOC_CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize))
	}
	if c.Dimension <= 0 {
		problems = append(problems, fmt.Sprintf("ASKDOC_EMBEDDING_DIMENSION must be positive, got %d", c.Dimension))
	}
	if c.TopK <= 0 {
		problems = append(problems, fmt.Sprintf("ASKDOC_TOP_K must be positive, got %d", c.TopK))
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		problems = append(problems, fmt.Sprintf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries))
	}
	if c.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("OPENAI_TIMEOUT must be positive, got %s", c.Timeout))
	}
	if c.RetryDelay <= 0 {
		problems = append(problems, fmt.Sprintf("OPENAI_RETRY_DELAY must be positive, got %s", c.RetryDelay))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// RequireIngest verifies everything the ingestion run needs, enumerating all
// missing options at once.
func (c *Config) RequireIngest() error {
	missing := c.missingPostgres()
	if c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.SourceURL == "" {
		missing = append(missing, "ASKDOC_SOURCE_URL")
	}
	return missingError(missing)
}

// RequireServe verifies everything the query service needs.
func (c *Config) RequireServe() error {
	missing := c.missingPostgres()
	if c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	return missingError(missing)
}

// RequireMCP verifies everything the MCP surface needs. Same as serving,
// minus the chat transport credential.
func (c *Config) RequireMCP() error {
	missing := c.missingPostgres()
	if c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	return missingError(missing)
}

func (c *Config) missingPostgres() []string {
	var missing []string
	if c.PostgresUser == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.PostgresPassword == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if c.PostgresDB == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	return missing
}

func missingError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
}

// DSN builds the Postgres connection string for lib/pq.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
