package domain

import "time"

// TimeBucket время суток для оценки времени в пути
// Утренний и вечерний пики настраиваются независимо, остальное - off-peak
type TimeBucket string

const (
	BucketMorningPeak TimeBucket = "morning_peak"
	BucketEveningPeak TimeBucket = "evening_peak"
	BucketOffPeak     TimeBucket = "off_peak"
)

// TravelTimeEntry закешированная оценка времени в пути между двумя точками
// Создается лениво при первом обращении; точность не требуется,
// важна только разумная монотонность
type TravelTimeEntry struct {
	FromPostalCode string
	ToPostalCode   string
	Minutes        int
	Bucket         TimeBucket
	ComputedAt     time.Time
}
