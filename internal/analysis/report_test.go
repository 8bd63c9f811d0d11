package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStep(t *testing.T) {
	cases := []struct {
		name        string
		periods     []Period
		wantStep    time.Duration
		wantUniform bool
	}{
		{"empty", nil, DefaultStep, true},
		{"single", series(time.Hour, 1), DefaultStep, true},
		{"hourly", series(time.Hour, 1, 2, 3), time.Hour, true},
		{"quarter hourly", series(15*time.Minute, 1, 2, 3, 4), 15 * time.Minute, true},
		{
			"gap",
			[]Period{{Start: t0}, {Start: t0.Add(15 * time.Minute)}, {Start: t0.Add(time.Hour)}},
			15 * time.Minute,
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			step, uniform := Step(tc.periods)
			if step != tc.wantStep || uniform != tc.wantUniform {
				t.Fatalf("Step=%v,%v want %v,%v", step, uniform, tc.wantStep, tc.wantUniform)
			}
		})
	}
}

func TestBuildReport_QuarterHourSeries(t *testing.T) {
	// 3 hours of quarter-hour samples: hour 1 costs 4, hour 2 costs 1, hour 3 costs 10.
	prices := []float64{4, 4, 4, 4, 1, 1, 1, 1, 10, 10, 10, 10}
	periods := series(15*time.Minute, prices...)

	cheapest, priciest := BuildReport(periods, 15*time.Minute, []int{1, 2, 5})

	if len(cheapest) != 2 || len(priciest) != 2 {
		t.Fatalf("rows: cheapest=%d priciest=%d, want 2 each (5h does not fit)", len(cheapest), len(priciest))
	}

	c1 := cheapest[0]
	if c1.Hours != 1 || !c1.Start.Equal(t0.Add(time.Hour)) || !c1.End.Equal(t0.Add(2*time.Hour)) {
		t.Fatalf("cheapest 1h row=%+v", c1)
	}
	if !c1.Average.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("cheapest 1h average=%s, want 1", c1.Average)
	}

	p2 := priciest[1]
	if p2.Hours != 2 || !p2.Start.Equal(t0.Add(time.Hour)) {
		t.Fatalf("priciest 2h row=%+v", p2)
	}
	if !p2.Average.Equal(decimal.RequireFromString("5.5")) {
		t.Fatalf("priciest 2h average=%s, want 5.5", p2.Average)
	}
}

func TestBuildReport_WindowAcrossGap(t *testing.T) {
	// hourly samples with 02:00 missing
	periods := []Period{
		{Start: t0, Price: decimal.NewFromInt(9)},
		{Start: t0.Add(time.Hour), Price: decimal.NewFromInt(1)},
		{Start: t0.Add(3 * time.Hour), Price: decimal.NewFromInt(1)},
		{Start: t0.Add(4 * time.Hour), Price: decimal.NewFromInt(9)},
	}

	cheapest, _ := BuildReport(periods, time.Hour, []int{2})
	if len(cheapest) != 1 {
		t.Fatalf("cheapest=%+v", cheapest)
	}
	c := cheapest[0]
	if !c.Start.Equal(t0.Add(time.Hour)) {
		t.Fatalf("start=%v, want %v", c.Start, t0.Add(time.Hour))
	}
	if !c.End.Equal(t0.Add(4 * time.Hour)) {
		t.Fatalf("end=%v, want %v", c.End, t0.Add(4*time.Hour))
	}
	if !c.Average.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("average=%s, want 1", c.Average)
	}
}

func TestBuildReport_DefaultsAndSkips(t *testing.T) {
	periods := series(time.Hour, 1, 2, 3, 4)

	cheapest, priciest := BuildReport(periods, 0, nil)
	// step falls back to 15m, so only the 1h window (4 samples) fits
	if len(cheapest) != 1 || cheapest[0].Hours != 1 {
		t.Fatalf("cheapest=%+v", cheapest)
	}
	if len(priciest) != 1 {
		t.Fatalf("priciest=%+v", priciest)
	}

	cheapest, _ = BuildReport(periods, time.Hour, []int{0, -2, 3})
	if len(cheapest) != 1 || cheapest[0].Hours != 3 {
		t.Fatalf("non-positive hours should be skipped: %+v", cheapest)
	}

	cheapest, priciest = BuildReport(nil, time.Hour, nil)
	if cheapest != nil || priciest != nil {
		t.Fatalf("empty series should give no rows")
	}
}

func TestSamplesPerWindow(t *testing.T) {
	cases := []struct {
		hours int
		step  time.Duration
		want  int
	}{
		{1, 15 * time.Minute, 4},
		{13, time.Hour, 13},
		{1, 7 * time.Minute, 0},
		{0, time.Hour, 0},
	}
	for _, tc := range cases {
		if got := samplesPerWindow(tc.hours, tc.step); got != tc.want {
			t.Fatalf("samplesPerWindow(%d,%v)=%d, want %d", tc.hours, tc.step, got, tc.want)
		}
	}
}
