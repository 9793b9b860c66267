package us

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBatchRangesSplitsEvenly(t *testing.T) {
	start := day(2024, 1, 1)
	end := day(2024, 7, 1) // 182 days

	ranges := batchRanges(start, end, 65)
	if len(ranges) != 3 {
		t.Fatalf("got %d ranges, want 3", len(ranges))
	}
	if !ranges[0].start.Equal(start) {
		t.Errorf("first range starts at %s, want %s", ranges[0].start, start)
	}
	if !ranges[len(ranges)-1].end.Equal(end) {
		t.Errorf("last range ends at %s, want %s", ranges[len(ranges)-1].end, end)
	}
	for i := 1; i < len(ranges); i++ {
		if !ranges[i].start.Equal(ranges[i-1].end) {
			t.Errorf("gap between range %d and %d", i-1, i)
		}
	}
}

func TestBatchRangesShortSpan(t *testing.T) {
	start := day(2024, 1, 1)

	ranges := batchRanges(start, start.AddDate(0, 0, 10), 65)
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}

	// Degenerate single-day request still yields one range.
	ranges = batchRanges(start, start, 65)
	if len(ranges) != 1 || !ranges[0].start.Equal(start) || !ranges[0].end.Equal(start) {
		t.Errorf("single-day span: got %+v", ranges)
	}
}

func TestGathererName(t *testing.T) {
	g := &MinuteBarGatherer{}
	if g.Name() != "us-minute" {
		t.Errorf("Name() = %q, want us-minute", g.Name())
	}
}

func TestLatestFinishedTradingDay(t *testing.T) {
	et, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			// Wednesday after the session has settled: same day.
			"weekday evening",
			time.Date(2025, 3, 12, 21, 0, 0, 0, et),
			time.Date(2025, 3, 12, 0, 0, 0, 0, et),
		},
		{
			// Wednesday before the 20:05 cutoff: previous day.
			"weekday midday",
			time.Date(2025, 3, 12, 14, 0, 0, 0, et),
			time.Date(2025, 3, 11, 0, 0, 0, 0, et),
		},
		{
			// Saturday: roll back to Friday.
			"saturday",
			time.Date(2025, 3, 15, 12, 0, 0, 0, et),
			time.Date(2025, 3, 14, 0, 0, 0, 0, et),
		},
		{
			// Monday morning: roll back through the weekend to Friday.
			"monday morning",
			time.Date(2025, 3, 17, 9, 0, 0, 0, et),
			time.Date(2025, 3, 14, 0, 0, 0, 0, et),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LatestFinishedTradingDay(tc.now)
			if err != nil {
				t.Fatalf("LatestFinishedTradingDay: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}
