package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVocabulary = []string{"Bún bò Huế", "Bún chả", "Phở bò", "Cơm tấm", "Trà sữa trân châu"}

func TestCleanDetectedText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "**Bún chả**", want: "Bún chả"},
		{in: "Product: Phở bò.", want: "Phở bò"},
		{in: "Bún bò Huế\nThis dish is from Huế", want: "Bún bò Huế"},
		{in: "The Cơm tấm", want: "Cơm tấm"},
		{in: "It is trà sữa!", want: "trà sữa"},
		{in: "`[Cơm tấm]`", want: "Cơm tấm"},
		{in: "Thermos bottle", want: "Thermos bottle"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanDetectedText(tt.in), tt.in)
	}
}

func TestMatchProduct(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		want     string
		wantOK   bool
	}{
		{name: "完全一致", detected: "phở bò", want: "Phở bò", wantOK: true},
		{name: "商品名に含まれる", detected: "trà sữa", want: "Trà sữa trân châu", wantOK: true},
		{name: "検出テキストが商品名を含む", detected: "Cơm tấm sườn bì", want: "Cơm tấm", wantOK: true},
		{name: "類似度", detected: "Bún bò Hue", want: "Bún bò Huế", wantOK: true},
		{name: "一致なし", detected: "laptop", wantOK: false},
		{name: "空", detected: "!!!", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchProduct(tt.detected, testVocabulary)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchKeyword(t *testing.T) {
	got, ok := matchKeyword("một bát phở rất ngon", testVocabulary)
	assert.True(t, ok)
	assert.Equal(t, "Phở bò", got)

	_, ok = matchKeyword("laptop", testVocabulary)
	assert.False(t, ok)
}

func TestBuildImagePrompt_CapsVocabulary(t *testing.T) {
	vocabulary := make([]string, 120)
	for i := range vocabulary {
		vocabulary[i] = "Món " + strings.Repeat("x", i%5+1)
	}

	prompt := buildImagePrompt(vocabulary)

	assert.Contains(t, prompt, "100. ")
	assert.NotContains(t, prompt, "101. ")
	assert.Contains(t, prompt, "... and 20 more items")

	small := buildImagePrompt([]string{"Phở bò"})
	assert.Contains(t, small, "• Phở bò")
}

func TestGroqImageRecognizer_PrepareImage(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer imageServer.Close()

	g := NewGroqImageRecognizer(NewGroqClient("http://unused", "test-key", time.Second)).(*groqImageRecognizer)
	ctx := context.Background()

	data, mime, err := g.prepareImage(ctx, imageServer.URL+"/pho.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "cG5nLWJ5dGVz", data)

	data, mime, err = g.prepareImage(ctx, "data:image/webp;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", mime)
	assert.Equal(t, "AAAA", data)

	data, mime, err = g.prepareImage(ctx, "QUJD")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, "QUJD", data)

	_, _, err = g.prepareImage(ctx, "data:image/png,notbase64")
	assert.Error(t, err)

	_, _, err = g.prepareImage(ctx, imageServer.URL+"/missing.jpg")
	assert.Error(t, err)

	// 画像以外のdata URLはbase64として扱わない
	_, _, err = g.prepareImage(ctx, "data:application/octet-stream;base64,QUJD")
	assert.Error(t, err)
	_, _, err = g.prepareImage(ctx, "data:text/plain;base64,QUJD")
	assert.Error(t, err)
}

func TestGroqImageRecognizer_DownloadSizeLimit(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		size := maxImageBytes
		if r.URL.Path == "/too-large.jpg" {
			size = maxImageBytes + 1
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(bytes.Repeat([]byte{0xff}, size))
	}))
	defer imageServer.Close()

	g := NewGroqImageRecognizer(NewGroqClient("http://unused", "test-key", time.Second)).(*groqImageRecognizer)
	ctx := context.Background()

	data, _, err := g.prepareImage(ctx, imageServer.URL+"/limit.jpg")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodedLen(maxImageBytes), len(data))

	_, _, err = g.prepareImage(ctx, imageServer.URL+"/too-large.jpg")
	assert.Error(t, err)
}

func TestGroqImageRecognizer_RecognizeProduct(t *testing.T) {
	server := newChatServer(t, func(t *testing.T, req ChatRequest) (int, string) {
		assert.Equal(t, VisionModel, req.Model)
		assert.Equal(t, 0.05, req.Temperature)
		return http.StatusOK, chatBody("Output: **Bún chả**")
	})
	recognizer := NewGroqImageRecognizer(NewGroqClient(server.URL, "test-key", 5*time.Second))

	got, ok := recognizer.RecognizeProduct(context.Background(), "QUJD", testVocabulary)

	assert.True(t, ok)
	assert.Equal(t, "Bún chả", got)
}

func TestGroqImageRecognizer_NotFound(t *testing.T) {
	server := newChatServer(t, func(t *testing.T, req ChatRequest) (int, string) {
		return http.StatusOK, chatBody("a red bicycle")
	})
	recognizer := NewGroqImageRecognizer(NewGroqClient(server.URL, "test-key", 5*time.Second))

	_, ok := recognizer.RecognizeProduct(context.Background(), "QUJD", testVocabulary)
	assert.False(t, ok)

	_, ok = recognizer.RecognizeProduct(context.Background(), "QUJD", nil)
	assert.False(t, ok)
}
