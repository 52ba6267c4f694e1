package model

import "github.com/paulmach/orb"

// Location 地域マスタ（おおまかなジオフェンス用の境界ボックスを持つ）
type Location struct {
	LocationID int64   `json:"location_id" db:"location_id"`
	Name       string  `json:"location_name" db:"location_name"`
	MaxLong    float64 `json:"location_max_long" db:"location_max_long"`
	MinLong    float64 `json:"location_min_long" db:"location_min_long"`
	MaxLat     float64 `json:"location_max_lat" db:"location_max_lat"`
	MinLat     float64 `json:"location_min_lat" db:"location_min_lat"`
}

// Bound 地域の境界ボックスを orb.Bound として返す
func (l *Location) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{l.MinLong, l.MinLat},
		Max: orb.Point{l.MaxLong, l.MaxLat},
	}
}

// Contains 座標が地域の境界ボックス内にあるか（境界上も含む）
func (l *Location) Contains(point orb.Point) bool {
	return l.Bound().Contains(point)
}

// NewPoint 緯度経度から orb.Point を作成（orbは [経度, 緯度] の順）
func NewPoint(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}
