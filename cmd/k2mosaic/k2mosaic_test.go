package main

import(
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    [2]int
		wantErr bool
	}{
		{"0..1069", [2]int{0, 1069}, false},
		{"500..500", [2]int{500, 500}, false},
		{"5..3", [2]int{}, true},
		{"5", [2]int{}, true},
		{"a..b", [2]int{}, true},
	}
	for _, test := range tests {
		got, err := parseRange(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %v", test.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
		} else if got != test.want {
			t.Errorf("%q: got %v, want %v", test.in, got, test.want)
		}
	}
}

func TestParseFloatRange(t *testing.T) {
	tests := []struct {
		in      string
		want    [2]float64
		wantErr bool
	}{
		{"0.5..99.5", [2]float64{0.5, 99.5}, false},
		{"0..5000", [2]float64{0, 5000}, false},
		{"-10..10", [2]float64{-10, 10}, false},
		{"9.5..0.5", [2]float64{}, true},
		{"x..1", [2]float64{}, true},
	}
	for _, test := range tests {
		got, err := parseFloatRange(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %v", test.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
		} else if got != test.want {
			t.Errorf("%q: got %v, want %v", test.in, got, test.want)
		}
	}
}
