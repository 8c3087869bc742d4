package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fixed(name string, r Result) Checker {
	return NewCheckerFunc(name, func(context.Context) Result { return r })
}

func TestNewAggregator_DefaultTimeout(t *testing.T) {
	if got := NewAggregator(AggregatorConfig{}).config.Timeout; got != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", got, DefaultTimeout)
	}
	if got := NewAggregator(AggregatorConfig{Timeout: time.Second}).config.Timeout; got != time.Second {
		t.Errorf("Timeout = %v, want 1s", got)
	}
}

func TestAggregator_RegisterReplacesInPlace(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(fixed("ffmpeg", Healthy("ok")))
	agg.Register(fixed("cache", Healthy("ok")))
	agg.Register(fixed("ffmpeg", Unhealthy("gone", nil)))

	names := agg.Names()
	if len(names) != 2 || names[0] != "ffmpeg" || names[1] != "cache" {
		t.Fatalf("Names() = %v", names)
	}
	r, err := agg.Check(context.Background(), "ffmpeg")
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusUnhealthy {
		t.Errorf("replacement not used, Status = %v", r.Status)
	}
}

func TestAggregator_CheckNotFound(t *testing.T) {
	_, err := NewAggregator(AggregatorConfig{}).Check(context.Background(), "nope")
	if !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		agg := NewAggregator(AggregatorConfig{Sequential: sequential})
		agg.Register(fixed("ffmpeg", Healthy("ok")))
		agg.Register(fixed("ffprobe", Healthy("ok")))
		agg.Register(fixed("cache", Degraded("slow", nil)))

		report := agg.CheckAll(context.Background())
		if report.Status != StatusDegraded {
			t.Errorf("sequential=%v: Status = %v, want degraded", sequential, report.Status)
		}
		want := []string{"ffmpeg", "ffprobe", "cache"}
		for i, e := range report.Entries {
			if e.Name != want[i] {
				t.Errorf("sequential=%v: entry %d = %q, want %q", sequential, i, e.Name, want[i])
			}
			if e.Result.Timestamp.IsZero() {
				t.Errorf("entry %q has no timestamp", e.Name)
			}
		}
	}
}

func TestAggregator_CheckAllEmpty(t *testing.T) {
	report := NewAggregator(AggregatorConfig{}).CheckAll(context.Background())
	if report.Status != StatusHealthy || len(report.Entries) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestAggregator_CheckAllTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})
	release := make(chan struct{})
	defer close(release)
	agg.Register(NewCheckerFunc("stuck", func(context.Context) Result {
		<-release
		return Healthy("late")
	}))

	report := agg.CheckAll(context.Background())
	if report.Status != StatusUnhealthy {
		t.Fatalf("Status = %v, want unhealthy", report.Status)
	}
	if !errors.Is(report.Entries[0].Result.Error, ErrCheckTimeout) {
		t.Errorf("Error = %v, want ErrCheckTimeout", report.Entries[0].Result.Error)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Entry{{Result: Healthy("")}, {Result: Healthy("")}}, StatusHealthy},
		{"degraded wins over healthy", []Entry{{Result: Healthy("")}, {Result: Degraded("", nil)}}, StatusDegraded},
		{"unhealthy wins", []Entry{{Result: Unhealthy("", nil)}, {Result: Degraded("", nil)}}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overall(tt.entries); got != tt.want {
				t.Errorf("Overall() = %v, want %v", got, tt.want)
			}
		})
	}
}
