package strata

import (
	"math"
	"testing"
)

func TestSortByZIndexIsStable(t *testing.T) {
	layers := []*Layer{
		{id: 0, zIndex: 2},
		{id: 1, zIndex: 1},
		{id: 2, zIndex: 2},
		{id: 3, zIndex: -1},
		{id: 4, zIndex: 1},
	}
	sortByZIndex(layers)
	want := []int{3, 1, 4, 0, 2}
	for i, l := range layers {
		if l.id != want[i] {
			t.Errorf("layers[%d] = %d, want %d", i, l.id, want[i])
		}
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{2, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMatchesHost(t *testing.T) {
	l := &Layer{width: 4, height: 3, density: 2}
	if !l.matchesHost(4, 3, 2) {
		t.Error("same size should match")
	}
	if l.matchesHost(4, 3, 1) {
		t.Error("different density should not match")
	}
}
