package handler

import (
	"testing"
	"time"
)

func TestBuildDailySeriesZeroFills(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	totals := map[string]int{
		"2026-03-02": 4,
		"2026-03-05": 1,
	}

	series := buildDailySeries(start, end, totals)

	if len(series) != 5 {
		t.Fatalf("len = %d, want 5", len(series))
	}
	want := []dailyPoint{
		{Day: "2026-03-01", Total: 0},
		{Day: "2026-03-02", Total: 4},
		{Day: "2026-03-03", Total: 0},
		{Day: "2026-03-04", Total: 0},
		{Day: "2026-03-05", Total: 1},
	}
	for i, p := range want {
		if series[i] != p {
			t.Fatalf("series[%d] = %+v, want %+v", i, series[i], p)
		}
	}
}

func TestBuildDailySeriesSingleDay(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := buildDailySeries(day, day, nil)
	if len(series) != 1 || series[0].Day != "2026-03-01" || series[0].Total != 0 {
		t.Fatalf("series = %+v", series)
	}
}
