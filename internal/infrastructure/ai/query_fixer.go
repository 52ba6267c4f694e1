package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"Shoppy-App/internal/domain/repository"
)

// vietnameseDiacritics ベトナム語の声調・母音記号付き文字（小文字）
const vietnameseDiacritics = "àáạảãâấầậẩẫăằắặẳẵèéẹẻẽêềếệểễìíịỉĩòóọỏõôồốộổỗơờớợởỡùúụủũưừứựửữỳýỵỷỹđ"

const queryFixerSystemPrompt = "You are a Vietnamese product name matcher. Return only product names, nothing else."

// groqQueryFixer はGroq APIを使用してQueryNormalizationRepositoryを実装
type groqQueryFixer struct {
	client     *GroqClient
	vocabulary string
}

// NewGroqQueryFixer は新しいgroqQueryFixerインスタンスを作成
// vocabulary は起動時に読み込んだ商品名一覧
func NewGroqQueryFixer(client *GroqClient, vocabulary []string) repository.QueryNormalizationRepository {
	return &groqQueryFixer{
		client:     client,
		vocabulary: strings.Join(vocabulary, ", "),
	}
}

// FixQuery はクエリを商品名に書き換える。失敗時は元のクエリを返す
func (g *groqQueryFixer) FixQuery(ctx context.Context, query string) string {
	if !g.client.HasAPIKey() {
		log.Printf("⚠️ GROQ_FIX_TEXT_API_KEY未設定のためクエリ修正をスキップ: '%s'", query)
		return query
	}

	log.Printf("🤖 Groq APIでクエリを修正中... ('%s')", query)

	text, err := g.client.ChatCompletion(ctx, ChatRequest{
		Model: TextModel,
		Messages: []ChatMessage{
			{Role: "system", Content: queryFixerSystemPrompt},
			{Role: "user", Content: g.buildPrompt(query)},
		},
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		log.Printf("❌ クエリ修正に失敗、元のクエリを使用: %v", err)
		return query
	}

	fixed := cleanFixedQuery(text)
	if fixed == "" {
		log.Printf("⚠️ Groqの応答が空のため元のクエリを使用: '%s'", query)
		return query
	}
	return fixed
}

func (g *groqQueryFixer) buildPrompt(query string) string {
	if looksForeign(query) {
		return fmt.Sprintf(`Extract and match Vietnamese product names from: '%s'

Available products: %s

Rules:
1. Match partial words (e.g., 'bún' → all dishes with 'bún')
2. GENERAL input → return ALL matching products (comma-separated)
3. SPECIFIC input → return exact product only
4. Output ONLY product names, no explanations

Product names:`, query, g.vocabulary)
	}

	return fmt.Sprintf(`Fix spelling and match Vietnamese product names from: '%s'

Available products: %s

Rules:
1. Fix any spelling mistakes first
2. Match partial words (e.g., 'bún' → all dishes with 'bún')
3. GENERAL input → return ALL matching products (comma-separated)
4. SPECIFIC input → return exact product only
5. Output ONLY product names, no explanations

Product names:`, query, g.vocabulary)
}

// looksForeign はベトナム語の記号付き文字を1つも含まない場合 true
func looksForeign(text string) bool {
	return !strings.ContainsAny(strings.ToLower(text), vietnameseDiacritics)
}

// cleanFixedQuery は応答から引用符・強調記号と "xxx:" 形式の前置きを取り除く
func cleanFixedQuery(text string) string {
	text = strings.NewReplacer(`"`, "", "*", "").Replace(text)
	text = strings.TrimSpace(text)

	if idx := strings.LastIndex(text, ":"); idx >= 0 {
		if tail := strings.TrimSpace(text[idx+1:]); tail != "" {
			text = tail
		}
	}
	return text
}
