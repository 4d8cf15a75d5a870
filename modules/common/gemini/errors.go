package gemini

import (
	"fmt"
	"strings"
)

// ErrorKind - 게이트웨이 에러 분류
type ErrorKind string

const (
	KindQuota   ErrorKind = "quota"
	KindAuth    ErrorKind = "auth"
	KindGeneric ErrorKind = "generic"
)

// 사용자 노출 메시지 (고정 문구)
const (
	quotaMessage = "You have exceeded your API request quota. Please check your plan and billing details, or try again later."
	authMessage  = "Your API key is not valid. Please ensure it is configured correctly."
)

// APIError - 분류된 Gemini API 에러. Error()가 곧 사용자 노출 메시지
type APIError struct {
	Kind ErrorKind
	Op   string // 실패한 작업명 (예: "master scene generation")
	raw  error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindQuota:
		return quotaMessage
	case KindAuth:
		return authMessage
	default:
		return fmt.Sprintf("Failed to complete %s. The API returned an error.", e.Op)
	}
}

// Unwrap - 원본 에러 접근용
func (e *APIError) Unwrap() error {
	return e.raw
}

// Classify - 원본 에러를 quota/auth/generic으로 분류
func Classify(err error, op string) *APIError {
	kind := KindGeneric

	if err != nil {
		raw := err.Error()
		lower := strings.ToLower(raw)
		switch {
		case strings.Contains(raw, "RESOURCE_EXHAUSTED") || IsRateLimitError(err):
			kind = KindQuota
		case strings.Contains(lower, "api key not valid") || strings.Contains(lower, "api_key_invalid"):
			kind = KindAuth
		}
	}

	return &APIError{Kind: kind, Op: op, raw: err}
}

// IsRateLimitError - 429 Rate Limit 에러인지 확인
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	// Gemini API 429 에러 패턴 체크
	return strings.Contains(errStr, "429") ||
		strings.Contains(strings.ToLower(errStr), "rate limit") ||
		strings.Contains(strings.ToLower(errStr), "quota")
}
