package mosaic

import(
	"image"
	"testing"
)

func TestResolvePlacement(t *testing.T) {
	canvas := image.Rect(0, 0, 10, 10)

	tests := []struct {
		name         string
		col, row     int
		w, h         int
		wantRect     image.Rectangle
		wantRejected bool
	}{
		{"interior", 2, 3, 4, 5, image.Rect(2, 3, 6, 8), false},
		{"flush against edges", 0, 0, 10, 10, image.Rect(0, 0, 10, 10), false},
		{"corner pixel", 9, 9, 1, 1, image.Rect(9, 9, 10, 10), false},
		{"off right edge", 8, 0, 3, 3, image.Rectangle{}, true},
		{"off bottom edge", 0, 8, 3, 3, image.Rectangle{}, true},
		{"negative corner", -1, 0, 3, 3, image.Rectangle{}, true},
		{"wholly outside", 20, 20, 3, 3, image.Rectangle{}, true},
	}

	for _, test := range tests {
		ct := Cutout{Name: test.name, CornerCol: test.col, CornerRow: test.row,
			Width: test.w, Height: test.h}
		rect, err := ResolvePlacement(ct, canvas)

		if test.wantRejected {
			if _, ok := err.(*PlacementError); !ok {
				t.Errorf("%s: got %v, want *PlacementError", test.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
		} else if rect != test.wantRect {
			t.Errorf("%s: got %v, want %v", test.name, rect, test.wantRect)
		}
	}
}
