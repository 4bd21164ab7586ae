package pipeline

import(
	"reflect"
	"testing"

	"k2mosaic/pkg/mosaic"
)

func refCutout(firstCadence, numCadences int) mosaic.Cutout {
	ct := mosaic.Cutout{FirstCadence: firstCadence}
	ct.Time = make([]float64, numCadences)
	return ct
}

func TestParseCadenceSpec(t *testing.T) {
	ref := refCutout(3000, 100) // cadences 3000..3099

	tests := []struct {
		spec    string
		step    int
		want    []int
		wantErr bool
	}{
		{"first", 1, []int{3000}, false},
		{"last", 1, []int{3099}, false},
		{"3050", 1, []int{3050}, false},
		{"3050..3053", 1, []int{3050, 3051, 3052, 3053}, false},
		{"3050..3056", 2, []int{3050, 3052, 3054, 3056}, false},
		// Small numbers are offsets into the reference's sequence.
		{"0..3", 1, []int{3000, 3001, 3002, 3003}, false},
		{"5", 1, []int{3005}, false},
		{"2999", 1, nil, true},
		{"3090..3105", 1, nil, true},
		{"banana", 1, nil, true},
		{"10..x", 1, nil, true},
	}

	for _, test := range tests {
		got, err := ParseCadenceSpec(test.spec, test.step, ref)
		if test.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %v", test.spec, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.spec, err)
		} else if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%q: got %v, want %v", test.spec, got, test.want)
		}
	}
}

func TestParseCadenceSpecAll(t *testing.T) {
	ref := refCutout(100, 10)

	got, err := ParseCadenceSpec("all", 1, ref)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(got) != 10 || got[0] != 100 || got[9] != 109 {
		t.Errorf("all: got %v", got)
	}

	got, err = ParseCadenceSpec("all", 3, ref)
	if err != nil {
		t.Fatalf("all step 3: %v", err)
	}
	if want := []int{100, 103, 106, 109}; !reflect.DeepEqual(got, want) {
		t.Errorf("all step 3: got %v, want %v", got, want)
	}
}
