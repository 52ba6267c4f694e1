package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// TextModel クエリ修正・地名標準化に使うモデル
	TextModel = "llama-3.3-70b-versatile"
	// VisionModel 画像認識に使うモデル
	VisionModel = "meta-llama/llama-4-scout-17b-16e-instruct"
)

// GroqClient はGroq API (OpenAI互換の chat completions) との通信を担当するクライアント
type GroqClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGroqClient は新しいGroqClientインスタンスを作成
// baseURL は "https://api.groq.com/openai/v1" のように /chat/completions を含まない形
func NewGroqClient(baseURL, apiKey string, timeout time.Duration) *GroqClient {
	return &GroqClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HasAPIKey はAPIキーが設定されているか
func (c *GroqClient) HasAPIKey() bool {
	return c != nil && c.apiKey != ""
}

// ChatRequest は chat completions へのリクエスト構造体
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	Stream         bool            `json:"stream"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatMessage はメッセージ。Content は string または []ContentPart
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart はマルチモーダル入力の1要素（text / image_url）
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL は画像の参照（data URL も可）
type ImageURL struct {
	URL string `json:"url"`
}

// ResponseFormat は出力形式の指定
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatResponse は chat completions のレスポンス構造体
type ChatResponse struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice は生成された候補
type Choice struct {
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// ResponseMessage は候補のメッセージ本文
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// APIError はAPIが返すエラーオブジェクト
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ChatCompletion はリクエストを送信し、最初の候補の本文（前後の空白を除去）を返す
func (c *GroqClient) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	if !c.HasAPIKey() {
		return "", fmt.Errorf("Groq APIキーが設定されていません")
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("リクエストのシリアライズに失敗: %w", err)
	}

	url := c.baseURL + "/chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API呼び出しエラー (status: %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("レスポンスのパースに失敗: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("Groq APIエラー [%s]: %s", chatResp.Error.Type, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("有効なレスポンスが生成されませんでした")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
