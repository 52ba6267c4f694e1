package model

import "math"

// PriceBucket 価格帯フィルタの区間 [Low, High)
type PriceBucket struct {
	Key  string
	Low  float64
	High float64
}

// PriceBuckets クエリパラメータ price の値（"1"〜"6"）とその価格帯
var PriceBuckets = map[string]PriceBucket{
	"1": {Key: "1", Low: 0, High: 50000},
	"2": {Key: "2", Low: 50000, High: 100000},
	"3": {Key: "3", Low: 100000, High: 200000},
	"4": {Key: "4", Low: 200000, High: 500000},
	"5": {Key: "5", Low: 500000, High: 1000000},
	"6": {Key: "6", Low: 1000000, High: math.Inf(1)},
}

// LookupPriceBucket キーから価格帯を取得する
func LookupPriceBucket(key string) (PriceBucket, bool) {
	bucket, ok := PriceBuckets[key]
	return bucket, ok
}

// Overlaps 店舗の価格帯 [min, max] が区間と重なるかを判定する
func (b PriceBucket) Overlaps(min, max float64) bool {
	return min < b.High && max >= b.Low
}
