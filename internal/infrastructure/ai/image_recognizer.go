package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"Shoppy-App/internal/domain/repository"
)

const (
	imageDownloadTimeout = 15 * time.Second
	maxImageBytes        = 10 << 20
	// プロンプトに列挙する商品名の上限
	maxPromptProducts = 100
)

var dataURLPattern = regexp.MustCompile(`(?s)^data:([^;]+);base64,(.+)$`)

// stopWordPrefixes 応答の先頭に付きがちな前置き
var stopWordPrefixes = []string{
	"output", "result", "product", "món", "là", "is", "answer", ":",
	"tên", "sản phẩm", "đáp án", "the", "this is", "it is",
	"looks like", "appears to be", "seems to be", "probably",
}

// fallbackKeywords あいまい一致に失敗したときの代表的なキーワード
var fallbackKeywords = []string{
	// 料理
	"cơm", "phở", "bún", "bánh", "chả", "gà", "bò", "heo", "tôm", "cá",
	"mì", "canh", "lẩu", "nem", "gỏi", "xôi", "cháo",
	// 飲み物
	"trà", "cà phê", "nước", "sinh tố", "sữa", "bia", "rượu", "chanh",
	// 日用品
	"bút", "vở", "sách", "balo", "túi", "áo", "quần",
}

// groqImageRecognizer はGroqのVisionモデルを使用してImageRecognitionRepositoryを実装
type groqImageRecognizer struct {
	client         *GroqClient
	downloadClient *http.Client
}

// NewGroqImageRecognizer は新しいgroqImageRecognizerインスタンスを作成
func NewGroqImageRecognizer(client *GroqClient) repository.ImageRecognitionRepository {
	return &groqImageRecognizer{
		client: client,
		downloadClient: &http.Client{
			Timeout: imageDownloadTimeout,
		},
	}
}

// RecognizeProduct は画像に写っている商品を vocabulary の中から推定する
func (g *groqImageRecognizer) RecognizeProduct(ctx context.Context, image string, vocabulary []string) (string, bool) {
	log.Printf("🔍 [1/7] 商品名一覧: %d件", len(vocabulary))
	if len(vocabulary) == 0 {
		log.Printf("❌ 商品名一覧が空のため画像検索できません")
		return "", false
	}
	if !g.client.HasAPIKey() {
		log.Printf("❌ GROQ_SEARCH_IMAGE_API_KEYが設定されていません")
		return "", false
	}

	log.Printf("🔍 [2/7] 画像データを準備中...")
	data, mimeType, err := g.prepareImage(ctx, image)
	if err != nil {
		log.Printf("❌ 画像データの準備に失敗: %v", err)
		return "", false
	}

	log.Printf("🔍 [3/7] プロンプトを作成中...")
	prompt := buildImagePrompt(vocabulary)

	log.Printf("🤖 [4/7] Groq APIを呼び出し中 (model: %s)", VisionModel)
	text, err := g.client.ChatCompletion(ctx, ChatRequest{
		Model: VisionModel,
		Messages: []ChatMessage{
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &ImageURL{URL: fmt.Sprintf("data:%s;base64,%s", mimeType, data)}},
				},
			},
		},
		Temperature: 0.05,
		MaxTokens:   200,
		TopP:        0.9,
	})
	if err != nil {
		log.Printf("❌ Vision API呼び出しに失敗: %v", err)
		return "", false
	}

	log.Printf("🔍 [5/7] 応答を取得: '%s'", text)
	if text == "" {
		log.Printf("❌ 応答からテキストを取得できませんでした")
		return "", false
	}

	detected := cleanDetectedText(text)
	log.Printf("🔍 [6/7] 整形後: '%s'", detected)

	log.Printf("🔍 [7/7] 商品名と照合中...")
	if product, ok := matchProduct(detected, vocabulary); ok {
		log.Printf("✅ 商品を特定: '%s'", product)
		return product, true
	}

	if product, ok := matchKeyword(detected, vocabulary); ok {
		log.Printf("⚠️ キーワードで商品を特定: '%s'", product)
		return product, true
	}

	log.Printf("❌ '%s' に一致する商品が見つかりませんでした", detected)
	return "", false
}

// prepareImage は http(s) URL・data URL・生のbase64 をbase64文字列とMIMEタイプに変換する
func (g *groqImageRecognizer) prepareImage(ctx context.Context, image string) (string, string, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return "", "", fmt.Errorf("画像データが空です")
	}

	switch {
	case strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://"):
		return g.downloadImage(ctx, image)

	case strings.HasPrefix(image, "data:"):
		m := dataURLPattern.FindStringSubmatch(image)
		if m == nil {
			return "", "", fmt.Errorf("data URLの形式が不正です")
		}
		if !strings.HasPrefix(m[1], "image/") {
			return "", "", fmt.Errorf("画像以外のMIMEタイプです: %s", m[1])
		}
		return m[2], m[1], nil

	default:
		return image, "image/jpeg", nil
	}
}

func (g *groqImageRecognizer) downloadImage(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("画像リクエストの作成に失敗: %w", err)
	}

	resp, err := g.downloadClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("画像のダウンロードに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("画像のダウンロードに失敗 (status: %d)", resp.StatusCode)
	}

	// 上限を1バイト超えて読み、超過を検出する
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("画像の読み取りに失敗: %w", err)
	}
	if len(body) > maxImageBytes {
		return "", "", fmt.Errorf("画像サイズが上限 (%dMB) を超えています", maxImageBytes>>20)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return base64.StdEncoding.EncodeToString(body), mimeType, nil
}

func buildImagePrompt(vocabulary []string) string {
	var list strings.Builder
	if len(vocabulary) > maxPromptProducts {
		for i, p := range vocabulary[:maxPromptProducts] {
			fmt.Fprintf(&list, "%d. %s\n", i+1, p)
		}
		fmt.Fprintf(&list, "... and %d more items", len(vocabulary)-maxPromptProducts)
	} else {
		lines := make([]string, 0, len(vocabulary))
		for _, p := range vocabulary {
			lines = append(lines, "• "+p)
		}
		list.WriteString(strings.Join(lines, "\n"))
	}

	return fmt.Sprintf(`You are a highly accurate product recognition AI. Analyze the image and identify the product.

PRODUCT DATABASE:
%s

TASK:
1. Carefully examine the image
2. Identify the main object/product
3. Match it to the MOST ACCURATE product name from the list above
4. Return ONLY the exact product name (preserve spelling)

MATCHING RULES:
• Food/beverages → Match to corresponding dish/drink
• Objects/tools → Match to best describing product
• Electronics → Match to similar device
• Clothing → Match to similar apparel
• Stationery → Match to similar item
• If multiple items visible, focus on the central/main item

OUTPUT FORMAT:
Return ONLY the product name, nothing else. No explanations, no markdown, no extra text.

Example outputs:
Cơm gà xối mỡ
Bún bò Huế
Trà sữa trân châu
Áo thun basic`, list.String())
}

// cleanDetectedText は記号・前置き・末尾の句読点を取り除く
func cleanDetectedText(text string) string {
	text = strings.NewReplacer(`"`, "", "*", "", "`", "", "[", "", "]", "").Replace(text)
	text = strings.TrimSpace(text)

	if idx := strings.LastIndex(text, ":"); idx >= 0 {
		text = strings.TrimSpace(text[idx+1:])
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}

	for _, word := range stopWordPrefixes {
		if hasWordPrefix(strings.ToLower(text), word) {
			text = strings.TrimSpace(text[len(word):])
		}
	}

	return strings.TrimRight(text, ".,;:!?")
}

// hasWordPrefix は word が単語単位で先頭にあるか（"the" は "thermos" に一致しない）
func hasWordPrefix(text, word string) bool {
	if !strings.HasPrefix(text, word) {
		return false
	}
	rest := text[len(word):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// normalizeText は小文字化し、文字・数字・空白・_ 以外を取り除く
func normalizeText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		return -1
	}, text)
}

// similarity はレーベンシュタイン距離による類似度 (0〜1)
func similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// wordOverlap は共通単語数 / 多い方の単語数
func wordOverlap(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	common := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			common++
		}
	}
	denom := len(wa)
	if len(wb) > denom {
		denom = len(wb)
	}
	return float64(common) / float64(denom)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

// matchProduct は 完全一致 → 部分文字列 → 単語の重なり → 類似度 の順で最も近い商品名を選ぶ
func matchProduct(detected string, vocabulary []string) (string, bool) {
	d := normalizeText(detected)
	if d == "" {
		return "", false
	}

	best := ""
	bestScore := 0.0
	consider := func(product string, score float64) {
		if score > bestScore {
			bestScore = score
			best = product
		}
	}

	for _, product := range vocabulary {
		p := normalizeText(product)
		if p == "" {
			continue
		}

		if d == p {
			return product, true
		}

		switch {
		case strings.Contains(p, d):
			consider(product, 0.95)
		case strings.Contains(d, p):
			consider(product, 0.90)
		}

		if overlap := wordOverlap(d, p); overlap > 0.5 {
			consider(product, overlap)
		}

		if sim := similarity(d, p); sim > 0.65 {
			consider(product, sim)
		}
	}

	if best == "" {
		return "", false
	}
	log.Printf("🔍 最も近い商品: '%s' (score: %.2f)", best, bestScore)
	return best, true
}

// matchKeyword は検出テキストに含まれる代表キーワードを持つ最初の商品名を返す
func matchKeyword(detected string, vocabulary []string) (string, bool) {
	text := strings.ToLower(detected)
	for _, keyword := range fallbackKeywords {
		if !strings.Contains(text, keyword) {
			continue
		}
		for _, product := range vocabulary {
			if strings.Contains(strings.ToLower(product), keyword) {
				return product, true
			}
		}
	}
	return "", false
}
