package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"calorie-search/internal/infrastructure/config"
	"calorie-search/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 低溫度取樣，要求模型回覆單一數值時降低隨機性
const numericTemperature = 0.1

// OpenRouterService OpenRouter 服務
type OpenRouterService struct {
	config *config.Config
	client *resty.Client
}

// NewOpenRouterService 創建 OpenRouter 服務
func NewOpenRouterService(cfg *config.Config) *OpenRouterService {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://calorie-search.app").
		SetHeader("X-Title", "Calorie Search")

	return &OpenRouterService{
		config: cfg,
		client: client,
	}
}

// Available 是否具備憑證可供調用
func (s *OpenRouterService) Available() bool {
	return s.config.OpenRouter.APIKey != ""
}

// GenerateNumeric 發送單則使用者訊息，取得一個純數值回答
func (s *OpenRouterService) GenerateNumeric(ctx context.Context, prompt string) (string, error) {
	// 簡化 prompt：去除前後空白、連續空白合併為一格
	simplePrompt := common.CollapseWhitespace(prompt)

	// 構建請求
	req := map[string]interface{}{
		"model": s.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": simplePrompt,
			},
		},
		"max_tokens":  s.config.OpenRouter.MaxTokens,
		"temperature": numericTemperature,
	}

	// 發送請求
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("OpenRouter 回應狀態異常",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", s.config.OpenRouter.Model),
		)
		return "", fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
