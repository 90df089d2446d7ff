package scale

import (
	"math"
	"testing"
)

func TestContinuousScale(t *testing.T) {
	tests := []struct {
		name  string
		scale *Continuous
		value float64
		want  float64
	}{
		{"LinearStart", NewContinuous(0, 10, 0, 100), 0, 0},
		{"LinearEnd", NewContinuous(0, 10, 0, 100), 10, 100},
		{"LinearMid", NewContinuous(0, 10, 0, 100), 5, 50},
		{"DescendingRange", NewContinuous(0, 10, 100, 0), 10, 0},
		{"NegativeDomain", NewContinuous(-5, 5, 0, 100), 0, 50},
		{"Extrapolates", NewContinuous(0, 10, 0, 100), 20, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scale.Scale(tt.value); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Scale(%g) = %g, want %g", tt.value, got, tt.want)
			}
		})
	}
}

func TestContinuousInvertRoundTrip(t *testing.T) {
	scales := map[string]*Continuous{
		"linear": NewContinuous(0, 100, 0, 400),
		"log":    {DomainMin: 1, DomainMax: 1000, RangeMin: 0, RangeMax: 300, Transform: TransformLog},
		"sqrt":   {DomainMin: 0, DomainMax: 100, RangeMin: 0, RangeMax: 200, Transform: TransformSqrt},
		"pow":    {DomainMin: 0, DomainMax: 10, RangeMin: 0, RangeMax: 100, Transform: TransformPow, Exponent: 2},
	}

	for name, s := range scales {
		t.Run(name, func(t *testing.T) {
			for _, v := range []float64{1, 2.5, 7, 9.9} {
				got := s.Invert(s.Scale(v))
				if math.Abs(got-v) > 1e-6 {
					t.Errorf("Invert(Scale(%g)) = %g", v, got)
				}
			}
		})
	}
}

func TestContinuousDegenerateDomain(t *testing.T) {
	s := NewContinuous(5, 5, 0, 100)

	if got := s.Scale(5); got != 50 {
		t.Errorf("Scale on collapsed domain = %g, want range midpoint 50", got)
	}

	ticks := s.Ticks(5)
	if len(ticks) != 1 {
		t.Fatalf("ticks on collapsed domain = %d, want 1", len(ticks))
	}
	if ticks[0].Value.(float64) != 5 {
		t.Errorf("tick value = %v, want 5", ticks[0].Value)
	}
}

func TestContinuousTicks(t *testing.T) {
	s := NewContinuous(0, 10, 0, 100)
	ticks := s.Ticks(5)

	if len(ticks) == 0 {
		t.Fatal("no ticks generated")
	}

	// Ticks are within the domain and strictly increasing.
	prev := math.Inf(-1)
	for _, tick := range ticks {
		v := tick.Value.(float64)
		if v < 0 || v > 10 {
			t.Errorf("tick %g outside domain [0, 10]", v)
		}
		if v <= prev {
			t.Errorf("ticks not increasing: %g after %g", v, prev)
		}
		prev = v
	}

	// Coordinates follow the scale.
	for _, tick := range ticks {
		want := s.Scale(tick.Value.(float64))
		if math.Abs(tick.Coordinate-want) > 1e-9 {
			t.Errorf("tick coordinate = %g, want %g", tick.Coordinate, want)
		}
	}
}

func TestLogTicks(t *testing.T) {
	s := &Continuous{DomainMin: 1, DomainMax: 10000, RangeMin: 0, RangeMax: 100, Transform: TransformLog}
	ticks := s.Ticks(5)

	want := []float64{1, 10, 100, 1000, 10000}
	if len(ticks) != len(want) {
		t.Fatalf("log ticks = %d values, want %d", len(ticks), len(want))
	}
	for i, tick := range ticks {
		if math.Abs(tick.Value.(float64)-want[i]) > 1e-9 {
			t.Errorf("tick[%d] = %v, want %g", i, tick.Value, want[i])
		}
	}
}

func TestTickStep(t *testing.T) {
	tests := []struct {
		lo, hi float64
		count  int
		want   float64
	}{
		{0, 10, 5, 2},
		{0, 100, 5, 20},
		{0, 1, 5, 0.2},
		{0, 7, 7, 1},
		{0, 0.35, 5, 0.05},
	}

	for _, tt := range tests {
		if got := TickStep(tt.lo, tt.hi, tt.count); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("TickStep(%g, %g, %d) = %g, want %g", tt.lo, tt.hi, tt.count, got, tt.want)
		}
	}
}

func TestGapPadding(t *testing.T) {
	tests := []struct {
		name     string
		policy   PaddingPolicy
		smallest float64
		gap      float64
		want     float64
	}{
		{"none", PaddingNone, 40, 0, 0},
		{"gap", PaddingGap, 40, 0, 20},
		{"no-gap nets out category gap", PaddingNoGap, 40, 0.1, 18},
		{"zero distance", PaddingGap, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GapPadding(tt.policy, tt.smallest, tt.gap)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("GapPadding = %g, want %g", got, tt.want)
			}
		})
	}
}
