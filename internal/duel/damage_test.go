package duel

import (
	"fmt"
	"testing"
)

// scripted replays fixed draws and fails loudly when it runs dry.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		panic("scripted source: out of floats")
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scripted) IntN(n int) int {
	if len(s.ints) == 0 {
		panic("scripted source: out of ints")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scripted source: %d out of [0,%d)", v, n))
	}
	return v
}

func TestTopDamageBranches(t *testing.T) {
	cases := []struct {
		name string
		src  *scripted
		want int
	}{
		{"normal low", &scripted{floats: []float64{0.5}, ints: []int{0}}, 1},
		{"normal high", &scripted{floats: []float64{0.10}, ints: []int{3}}, 4},
		{"lucky", &scripted{floats: []float64{0.05, 0.39}}, TopLucky},
		{"complication low", &scripted{floats: []float64{0.05, 0.40}, ints: []int{0}}, 5},
		{"complication high", &scripted{floats: []float64{0.09, 0.99}, ints: []int{4}}, 9},
	}
	for _, tc := range cases {
		if got := TopDamage(tc.src); got != tc.want {
			t.Fatalf("%s: TopDamage = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestBottomDamageBranches(t *testing.T) {
	cases := []struct {
		name string
		src  *scripted
		want int
	}{
		{"normal low", &scripted{floats: []float64{0.15}, ints: []int{0}}, 4},
		{"normal high", &scripted{floats: []float64{0.9}, ints: []int{14}}, 18},
		{"lucky", &scripted{floats: []float64{0.14, 0.29}}, BottomLucky},
		{"trauma low", &scripted{floats: []float64{0.0, 0.30}, ints: []int{0}}, 18},
		{"trauma high", &scripted{floats: []float64{0.1, 0.5}, ints: []int{6}}, 24},
	}
	for _, tc := range cases {
		if got := BottomDamage(tc.src); got != tc.want {
			t.Fatalf("%s: BottomDamage = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestTreatmentDeltaBranches(t *testing.T) {
	cases := []struct {
		name string
		src  *scripted
		want int
	}{
		{"smallest improvement", &scripted{floats: []float64{0.0}, ints: []int{0}}, -1},
		{"largest improvement", &scripted{floats: []float64{0.69}, ints: []int{90}}, -10},
		{"smallest setback", &scripted{floats: []float64{0.7}, ints: []int{9}}, 1},
		{"largest setback", &scripted{floats: []float64{0.99}, ints: []int{140}}, 15},
	}
	for _, tc := range cases {
		if got := TreatmentDelta(tc.src); got != tc.want {
			t.Fatalf("%s: TreatmentDelta = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestDefaultSourceStaysInRange(t *testing.T) {
	src := DefaultSource()
	for i := 0; i < 1000; i++ {
		top := TopDamage(src)
		if top != TopLucky && (top < 1 || top >= 10) {
			t.Fatalf("TopDamage out of range: %d", top)
		}
		bottom := BottomDamage(src)
		if bottom != BottomLucky && (bottom < 4 || bottom >= 25) {
			t.Fatalf("BottomDamage out of range: %d", bottom)
		}
		if d := TreatmentDelta(src); d == 0 || d < -10 || d > 15 {
			t.Fatalf("TreatmentDelta out of range: %d", d)
		}
	}
}
