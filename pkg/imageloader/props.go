package imageloader

import (
	"github.com/vango-dev/imageloader/pkg/fetch"
	"github.com/vango-dev/imageloader/pkg/vdom"
)

// View is a presentable child. WithExtraAttributes returns the view's node
// with extra merged over its own attributes and must not modify the view.
//
// *vdom.VNode implements View.
type View interface {
	WithExtraAttributes(extra vdom.Props) *vdom.VNode
}

// ViewFunc adapts a function to the View interface.
type ViewFunc func(extra vdom.Props) *vdom.VNode

// WithExtraAttributes implements View.
func (f ViewFunc) WithExtraAttributes(extra vdom.Props) *vdom.VNode {
	return f(extra)
}

// Props configures a Loader.
type Props struct {
	// Src is the image source. Empty means pending.
	Src string

	// SrcSet is an optional candidate list ("a.png 1x, a@2x.png 2x"),
	// passed to the fetcher and to the loaded view.
	SrcSet string

	// ClassName is appended to the status class token.
	ClassName string

	// Style is applied to the wrapper, or to the child in pure mode.
	Style vdom.Style

	// WrapperProps are extra attributes for the wrapper, or for the child
	// in pure mode.
	WrapperProps vdom.Props

	// Pure suppresses the wrapper element.
	Pure bool

	// OnLoad is called once per successful fetch.
	OnLoad func(fetch.Event)

	// OnError is called once per failed fetch.
	OnError func(error)

	// Children are the loaded, failed and pending/loading views, in that
	// order.
	Children []View
}

// Children builds the three-view slice from nodes.
func Children(loaded, failed, pending *vdom.VNode) []View {
	return []View{loaded, failed, pending}
}
