package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttrIsEmpty(t *testing.T) {
	if !(Attr{}).IsEmpty() {
		t.Error("zero Attr should be empty")
	}
	if Src("a.png").IsEmpty() {
		t.Error("Src attr should not be empty")
	}
}

func TestFuncComponent(t *testing.T) {
	comp := Func(func() *VNode { return Span(Text("hi")) })
	node := comp.Render()
	if node.Tag != "span" {
		t.Errorf("Tag = %v, want span", node.Tag)
	}
}
