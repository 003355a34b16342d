package vdom

import "testing"

func TestText(t *testing.T) {
	node := Text("50%")
	if node.Kind != KindText || node.Text != "50%" {
		t.Errorf("got %+v", node)
	}
}

func TestRaw(t *testing.T) {
	node := Raw("<b>x</b>")
	if node.Kind != KindRaw || node.Text != "<b>x</b>" {
		t.Errorf("got %+v", node)
	}
}

func TestFragment(t *testing.T) {
	node := Fragment(nil, Span(), "text", []*VNode{Div(), nil}, Func(func() *VNode { return nil }))
	if node.Kind != KindFragment {
		t.Fatalf("Kind = %v, want Fragment", node.Kind)
	}
	if len(node.Children) != 4 {
		t.Fatalf("Children len = %d, want 4", len(node.Children))
	}
	if node.Children[1].Kind != KindText {
		t.Errorf("string child should be text")
	}
	if node.Children[3].Kind != KindComponent {
		t.Errorf("component child should be wrapped")
	}
}

func TestConditionals(t *testing.T) {
	a := Span()
	if If(false, a) != nil || If(true, a) != a {
		t.Error("If misbehaves")
	}
}
