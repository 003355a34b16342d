package vdom

import "testing"

func TestStyleString(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"nil", nil, ""},
		{"single", Style{"width": "10px"}, "width: 10px"},
		{"sorted", Style{"width": "10px", "height": "5px"}, "height: 5px; width: 10px"},
		{"skips empty", Style{"width": "", "color": "red"}, "color: red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleMerge(t *testing.T) {
	base := Style{"width": "10px", "color": "red"}
	merged := base.Merge(Style{"color": "blue"})

	if merged["color"] != "blue" || merged["width"] != "10px" {
		t.Errorf("Merge() = %v", merged)
	}
	if base["color"] != "red" {
		t.Error("Merge must not modify the receiver")
	}
	if got := Style(nil).Merge(nil); got != nil {
		t.Errorf("Merge of empties = %v, want nil", got)
	}
}

func TestStylesAttr(t *testing.T) {
	a := Styles(Style{"width": "1px"})
	if a.Key != "style" {
		t.Errorf("Key = %v, want style", a.Key)
	}
	if _, ok := a.Value.(Style); !ok {
		t.Errorf("Value type = %T, want Style", a.Value)
	}
}
