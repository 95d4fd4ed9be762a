package ride

import "math"

// ==== Vehicle classes ====
const (
	ClassEconomy = "economy"
	ClassPremium = "premium"
	ClassSUV     = "suv"
	ClassBike    = "bike"
)

// Fare — разбивка стоимости поездки. Фиксируется при создании
// и после назначения водителя не пересчитывается.
type Fare struct {
	Base     float64 `json:"base_fare"`
	Distance float64 `json:"distance_fare"`
	Time     float64 `json:"time_fare"`
	Surge    float64 `json:"surge_fare"`
	Total    float64 `json:"total"`
}

type rate struct {
	base  float64
	perKm float64
}

// Тарифная сетка по классам
var fareRates = map[string]rate{
	ClassEconomy: {base: 50.0, perKm: 12.0},
	ClassPremium: {base: 100.0, perKm: 22.0},
	ClassSUV:     {base: 80.0, perKm: 17.0},
	ClassBike:    {base: 25.0, perKm: 7.0},
}

// perHourRate — временная составляющая, одинаковая для всех классов
const perHourRate = 60.0

// ValidVehicleClass проверяет известность класса. Неизвестный класс —
// это ошибка валидации, а не тихий откат на economy.
func ValidVehicleClass(class string) bool {
	_, ok := fareRates[class]
	return ok
}

// ComputeFare вычисляет стоимость: base + distance*perKm + (duration/60)*perHour.
// Surge всегда 0 (динамического ценообразования нет). Total округляется
// до 2 знаков.
func ComputeFare(distanceKm float64, class string, durationMin float64) (Fare, error) {
	r, ok := fareRates[class]
	if !ok {
		return Fare{}, ErrInvalidVehicleClass
	}

	f := Fare{
		Base:     r.base,
		Distance: round2(distanceKm * r.perKm),
		Time:     round2(durationMin / 60.0 * perHourRate),
		Surge:    0,
	}
	f.Total = round2(f.Base + f.Distance + f.Time + f.Surge)
	return f, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HaversineKm — расстояние между двумя точками в километрах
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

// EstimateDurationMin — примерное время поездки при средней скорости 40 км/ч
func EstimateDurationMin(distanceKm float64) float64 {
	const avgSpeedKmh = 40.0
	return math.Ceil(distanceKm / avgSpeedKmh * 60)
}
