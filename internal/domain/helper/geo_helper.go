package helper

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusKm = 6371.0

// HaversineKm は2地点間の大圏距離を計算する (km)
func HaversineKm(p1, p2 orb.Point) float64 {
	lat1 := p1.Lat() * math.Pi / 180
	lng1 := p1.Lon() * math.Pi / 180
	lat2 := p2.Lat() * math.Pi / 180
	lng2 := p2.Lon() * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// DistanceKm はユーザー位置と店舗位置の距離を小数第2位に丸めて返す
// どちらかの座標が不明な場合は nil（0ではない）
func DistanceKm(user, store *orb.Point) *float64 {
	if user == nil || store == nil {
		return nil
	}
	d := math.Round(HaversineKm(*user, *store)*100) / 100
	return &d
}

// StorePoint は店舗の緯度経度（NULL可）から座標を作る
func StorePoint(lat, lng *float64) *orb.Point {
	if lat == nil || lng == nil {
		return nil
	}
	p := orb.Point{*lng, *lat}
	return &p
}
