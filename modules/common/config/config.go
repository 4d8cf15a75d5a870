package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Gemini API
	GeminiAPIKey  string
	GeminiAPIKeys []string // 429 재시도용 키 목록 (GEMINI_API_KEYS, 콤마 구분)
	TextModel     string   // 제품 식별용
	ImageModel    string   // 씬 생성용

	// Server
	Port string

	// Workflow
	CategoryPlaybooks bool // 제품 카테고리별 앵글 플레이북 사용 여부
	SessionTTLHours   int  // 세션 만료 시간
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// CategoryPlaybooks 파싱
	categoryPlaybooks := false
	if v := os.Getenv("CATEGORY_PLAYBOOKS"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			categoryPlaybooks = parsed
		}
	}

	// SessionTTL 파싱
	sessionTTL := 24 // 기본값
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			sessionTTL = parsed
		}
	}

	globalConfig = &Config{
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiAPIKeys: splitKeys(os.Getenv("GEMINI_API_KEYS")),
		TextModel:     getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		ImageModel:    getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image-preview"),

		Port: getEnv("PORT", "8080"),

		CategoryPlaybooks: categoryPlaybooks,
		SessionTTLHours:   sessionTTL,
	}

	// 단일 키만 설정된 경우 키 목록으로 승격
	if len(globalConfig.GeminiAPIKeys) == 0 && globalConfig.GeminiAPIKey != "" {
		globalConfig.GeminiAPIKeys = []string{globalConfig.GeminiAPIKey}
	}
	if globalConfig.GeminiAPIKey == "" && len(globalConfig.GeminiAPIKeys) > 0 {
		globalConfig.GeminiAPIKey = globalConfig.GeminiAPIKeys[0]
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini text model: %s", globalConfig.TextModel)
	log.Printf("   Gemini image model: %s", globalConfig.ImageModel)
	log.Printf("   API keys: %d", len(globalConfig.GeminiAPIKeys))
	log.Printf("   Category playbooks: %v", globalConfig.CategoryPlaybooks)
	log.Printf("   Session TTL: %dh", globalConfig.SessionTTLHours)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitKeys - 콤마 구분 키 목록 파싱
func splitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
