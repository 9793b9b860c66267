package us

import (
	"fmt"
	"time"
)

// sessionSettled is the ET wall-clock time after which the day's extended
// hours data has settled and the full session can be downloaded.
const sessionSettledHour = 20
const sessionSettledMin = 5

// LatestFinishedTradingDay returns the most recent US weekday whose market
// session has ended as of now, in ET. Exchange holidays are not modeled;
// requesting a holiday simply returns an empty batch from the data API.
func LatestFinishedTradingDay(now time.Time) (time.Time, error) {
	et, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.Time{}, fmt.Errorf("loading ET timezone: %w", err)
	}

	now = now.In(et)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, et)

	cutoff := day.Add(sessionSettledHour*time.Hour + sessionSettledMin*time.Minute)
	if now.Before(cutoff) {
		day = day.AddDate(0, 0, -1)
	}

	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, -1)
	}
	return day, nil
}
