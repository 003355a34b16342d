package fetch

import (
	"reflect"
	"testing"
)

func TestParseSrcSet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want SrcSet
	}{
		{"empty", "", nil},
		{"plain url", "a.png", SrcSet{{URL: "a.png", Density: 1}}},
		{
			"densities",
			"a.png 1x, a@2x.png 2x",
			SrcSet{{URL: "a.png", Density: 1}, {URL: "a@2x.png", Density: 2}},
		},
		{
			"widths",
			"small.jpg 480w,large.jpg 1080w",
			SrcSet{{URL: "small.jpg", Width: 480}, {URL: "large.jpg", Width: 1080}},
		},
		{
			"trailing comma terminates url",
			"a.png, b.png 1.5x",
			SrcSet{{URL: "a.png", Density: 1}, {URL: "b.png", Density: 1.5}},
		},
		{
			"invalid descriptors dropped",
			"a.png 0x, b.png -3w, c.png 2q, d.png 1x 2x, e.png 3x",
			SrcSet{{URL: "e.png", Density: 3}},
		},
		{
			"extra whitespace",
			"  a.png   2x ,\n b.png  ",
			SrcSet{{URL: "a.png", Density: 2}, {URL: "b.png", Density: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSrcSet(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSrcSet(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSrcSetSelect(t *testing.T) {
	densities := ParseSrcSet("a.png 1x, a@2x.png 2x, a@3x.png 3x")
	widths := ParseSrcSet("s.jpg 400w, m.jpg 800w, l.jpg 1600w")

	tests := []struct {
		name     string
		set      SrcSet
		dpr      float64
		viewport int
		want     string
	}{
		{"dpr 1", densities, 1, 0, "a.png"},
		{"dpr 1.5 rounds up", densities, 1.5, 0, "a@2x.png"},
		{"dpr above all picks densest", densities, 4, 0, "a@3x.png"},
		{"zero dpr means 1", densities, 0, 0, "a.png"},
		{"widths without viewport pick widest", widths, 1, 0, "l.jpg"},
		{"widths with viewport", widths, 1, 800, "m.jpg"},
		{"widths with viewport and dpr 2", widths, 2, 800, "l.jpg"},
		{"widths small viewport", widths, 1, 300, "s.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.set.Select(tt.dpr, tt.viewport)
			if !ok {
				t.Fatal("Select returned false")
			}
			if got.URL != tt.want {
				t.Errorf("Select() = %s, want %s", got.URL, tt.want)
			}
		})
	}

	if _, ok := SrcSet(nil).Select(1, 0); ok {
		t.Error("empty set should not select")
	}
}
