package repository

import "context"

// QueryNormalizationRepository は検索に失敗したクエリを商品名の語彙に書き換える責務を持つ
type QueryNormalizationRepository interface {
	// FixQuery は書き換え後のクエリを返す。失敗時は元のクエリをそのまま返し、エラーにはしない
	FixQuery(ctx context.Context, query string) string
}

// LocationStandardizationRepository はユーザー入力の地名を省・中央直轄市名に標準化する
type LocationStandardizationRepository interface {
	// StandardizeLocation は標準化できなかった場合 ok=false を返す
	StandardizeLocation(ctx context.Context, input string) (location string, ok bool)
}

// ImageRecognitionRepository は画像から商品名を推定する
type ImageRecognitionRepository interface {
	// RecognizeProduct は vocabulary の中から最も近い商品名を返す。見つからなければ ok=false
	RecognizeProduct(ctx context.Context, image string, vocabulary []string) (product string, ok bool)
}
