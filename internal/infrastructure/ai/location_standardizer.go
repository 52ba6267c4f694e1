package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"Shoppy-App/internal/domain/repository"
)

const locationSystemPrompt = `Bạn là một API chuẩn hóa địa danh Việt Nam.
NHIỆM VỤ: Xác định Tỉnh hoặc Thành phố trực thuộc trung ương.

QUY TẮC (Output Rules):
1. ƯU TIÊN TUYỆT ĐỐI: Input thuộc TP.HCM (Q1, Sài Gòn, Thủ Đức, HCM...) -> TRẢ VỀ: "TP. Hồ Chí Minh"
2. Input thuộc tỉnh/thành khác -> Trả về tên chuẩn (VD: Hà Nội, Đà Nẵng, Cần Thơ).
3. Suy luận:
   - Input là Quận/Huyện/Địa danh con -> Trả về Tỉnh/TP chứa nó (VD: "Hội An" -> "Quảng Nam").
   - Viết tắt/Sai chính tả -> Tự sửa (VD: "HN" -> "Hà Nội").
4. Không tìm thấy -> Trả về null.

OUTPUT FORMAT: JSON Object bắt buộc
{ "location": "Tên chuẩn hoặc null" }`

// groqLocationStandardizer はGroq APIを使用してLocationStandardizationRepositoryを実装
type groqLocationStandardizer struct {
	client *GroqClient
}

// NewGroqLocationStandardizer は新しいgroqLocationStandardizerインスタンスを作成
func NewGroqLocationStandardizer(client *GroqClient) repository.LocationStandardizationRepository {
	return &groqLocationStandardizer{
		client: client,
	}
}

type locationAnswer struct {
	Location *string `json:"location"`
}

// StandardizeLocation は地名を省・中央直轄市名に標準化する。判定できなければ ok=false
func (g *groqLocationStandardizer) StandardizeLocation(ctx context.Context, input string) (string, bool) {
	if !g.client.HasAPIKey() {
		log.Printf("⚠️ GROQ_LOCATION_API_KEY未設定のため地名の標準化をスキップ: '%s'", input)
		return "", false
	}

	location, err := g.standardize(ctx, input)
	if err != nil {
		log.Printf("❌ 地名の標準化に失敗: %v", err)
		return "", false
	}
	if location == "" {
		log.Printf("⚠️ 地名を特定できませんでした: '%s'", input)
		return "", false
	}

	log.Printf("📍 地名標準化: '%s' → '%s'", input, location)
	return location, true
}

func (g *groqLocationStandardizer) standardize(ctx context.Context, input string) (string, error) {
	content, err := g.client.ChatCompletion(ctx, ChatRequest{
		Model: TextModel,
		Messages: []ChatMessage{
			{Role: "system", Content: locationSystemPrompt},
			{Role: "user", Content: "Input: " + input},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
		Temperature:    0,
		MaxTokens:      100,
	})
	if err != nil {
		return "", fmt.Errorf("Groq API呼び出しエラー: %w", err)
	}

	var answer locationAnswer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return "", fmt.Errorf("AI応答のJSONパースに失敗 (%s): %w", truncate(content, 100), err)
	}
	if answer.Location == nil {
		return "", nil
	}

	location := strings.TrimSpace(*answer.Location)
	// モデルが文字列で "null" を返すことがある
	if strings.EqualFold(location, "null") {
		return "", nil
	}
	return location, nil
}
