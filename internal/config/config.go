package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/fmckeffi/healthdesk/backend/internal/service/completion"
)

// Provider names the completion backend.
type Provider string

const (
	ProviderGroq Provider = "groq"
	ProviderArk  Provider = "ark"
)

// Config groups the settings of the whole service.
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	AI       AIConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	Lexicon  LexiconConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llm, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	db, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	sess, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		LLM:      llm,
		AI:       ai,
		Database: db,
		Session:  sess,
		Admin:    AdminConfig{Email: strings.TrimSpace(os.Getenv("ADMIN_EMAIL")), Password: os.Getenv("ADMIN_PASSWORD")},
		Lexicon:  LexiconConfig{Path: strings.TrimSpace(os.Getenv("LEXICON_PATH"))},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	Env            string
	AllowedOrigins []string
}

// Production reports whether the service runs with APP_ENV=production.
func (c ServerConfig) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	cfg := ServerConfig{
		Env:            getEnvOrDefault("APP_ENV", "development"),
		AllowedOrigins: parseListEnv("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are passed through untouched.
		cfg.Addr = port
		return cfg, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value %q: %w", port, err)
	}

	cfg.Addr = ":" + port
	return cfg, nil
}

// LLMConfig selects the completion backend and its OpenAI-compatible settings.
type LLMConfig struct {
	Provider       Provider
	APIKey         string
	BaseURL        string
	Model          string
	ConnectTimeout time.Duration
	Timeout        time.Duration
}

// Enabled reports whether the Groq backend has credentials.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel builds an OpenAI-compatible chat model against the Groq
// endpoint. A missing key is not an error here: the endpoint rejects the call
// and the chat service answers with its fallback reply.
func (c LLMConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if c.Model == "" {
		return nil, fmt.Errorf("groq model missing: set GROQ_MODEL")
	}

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:     c.APIKey,
		BaseURL:    strings.TrimRight(c.BaseURL, "/"),
		Model:      c.Model,
		HTTPClient: completion.NewHTTPClient(c.ConnectTimeout, c.Timeout),
	})
}

func loadLLMConfig() (LLMConfig, error) {
	provider := Provider(strings.ToLower(getEnvOrDefault("LLM_PROVIDER", string(ProviderGroq))))
	if provider != ProviderGroq && provider != ProviderArk {
		return LLMConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q: want groq or ark", provider)
	}

	connectTimeout, err := parseDurationEnv("LLM_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return LLMConfig{}, err
	}

	timeout, err := parseDurationEnv("LLM_TIMEOUT", 30*time.Second)
	if err != nil {
		return LLMConfig{}, err
	}

	return LLMConfig{
		Provider:       provider,
		APIKey:         strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		BaseURL:        getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:          getEnvOrDefault("GROQ_MODEL", "llama3-8b-8192"),
		ConnectTimeout: connectTimeout,
		Timeout:        timeout,
	}, nil
}

// AIConfig describes the Ark chat model used when LLM_PROVIDER=ark.
type AIConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
	Timeout   time.Duration
}

// Enabled reports whether the required Ark credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: set ARK_MODEL with ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		APIKey:    c.APIKey,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Model:     c.Model,
	}
	if c.Timeout > 0 {
		timeout := c.Timeout
		cfg.Timeout = &timeout
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	timeout, err := parseDurationEnv("LLM_TIMEOUT", 30*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Timeout:   timeout,
	}, nil
}

// DatabaseConfig describes the PostgreSQL directory store.
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	url := strings.TrimSpace(os.Getenv("DATABASE_URL"))

	enabled, err := parseBoolEnv("ENABLE_DB", url != "")
	if err != nil {
		return DatabaseConfig{}, err
	}
	if enabled && url == "" {
		return DatabaseConfig{}, fmt.Errorf("ENABLE_DB is set but DATABASE_URL is empty")
	}

	return DatabaseConfig{URL: url, Enabled: enabled}, nil
}

// SessionConfig describes admin session storage.
type SessionConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
	CookieName    string
}

// UseRedis reports whether sessions are kept in Redis rather than in memory.
func (c SessionConfig) UseRedis() bool {
	return c.RedisAddr != ""
}

func loadSessionConfig() (SessionConfig, error) {
	redisDB := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		redisDB = *override
	}

	ttl, err := parseDurationEnv("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return SessionConfig{}, err
	}

	return SessionConfig{
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		TTL:           ttl,
		CookieName:    getEnvOrDefault("SESSION_COOKIE", "admin_session"),
	}, nil
}

// AdminConfig holds an optional admin account created at startup.
type AdminConfig struct {
	Email    string
	Password string
}

// Bootstrap reports whether an admin account should be seeded.
func (c AdminConfig) Bootstrap() bool {
	return c.Email != "" && c.Password != ""
}

// LexiconConfig points at an optional YAML override of the embedded medical tables.
type LexiconConfig struct {
	Path string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
