package imageloader

import (
	"github.com/vango-dev/imageloader/pkg/render"
	"github.com/vango-dev/imageloader/pkg/vdom"
)

// ClassPrefix is the base class token of every rendered loader.
const ClassPrefix = "imageloader"

// ClassName returns the decoration class for status merged with the
// caller's class name: "imageloader imageloader-loaded avatar".
func ClassName(status Status, className string) string {
	return vdom.ClassNames(ClassPrefix, status.ClassName(), className)
}

// Render returns the view for the current status.
func (l *Loader) Render() *vdom.VNode {
	return Render(l.status, l.props)
}

// RenderHTML serializes the current view with r.
func (l *Loader) RenderHTML(r *render.Renderer) (string, error) {
	if r == nil {
		r = render.NewRenderer(render.RendererConfig{})
	}
	return r.RenderToString(l.Render())
}

// Render selects and decorates the child for status:
//
//   - loaded: child 1, given src (and srcset when set)
//   - failed: child 2
//   - pending, loading: child 3
//
// Unless props.Pure is set, the child is wrapped in a div carrying
// WrapperProps, the class token and Style. In pure mode Style, the class
// token and then WrapperProps are merged onto the child itself; an empty
// Style removes the child's own style.
func Render(status Status, props Props) *vdom.VNode {
	class := ClassName(status, props.ClassName)

	var decoration vdom.Props
	if props.Pure {
		decoration = make(vdom.Props, len(props.WrapperProps)+2)
		decoration["style"] = nil
		if len(props.Style) > 0 {
			decoration["style"] = props.Style
		}
		decoration["class"] = class
		vdom.MergeProps(decoration, props.WrapperProps)
	}

	child := selectChild(status, props, decoration)
	if props.Pure {
		return child
	}

	wrapper := vdom.Div(props.WrapperProps, vdom.Class(class))
	if len(props.Style) > 0 {
		wrapper.Props["style"] = props.Style
	} else {
		delete(wrapper.Props, "style")
	}
	if child != nil {
		wrapper.Children = append(wrapper.Children, child)
	}
	return wrapper
}

func selectChild(status Status, props Props, decoration vdom.Props) *vdom.VNode {
	if len(props.Children) != ChildCount {
		return nil
	}

	var (
		view  View
		extra vdom.Props
	)
	switch status {
	case StatusLoaded:
		view = props.Children[0]
		extra = vdom.Props{"src": props.Src}
		if props.SrcSet != "" {
			extra["srcset"] = props.SrcSet
		}
	case StatusFailed:
		view = props.Children[1]
	default:
		view = props.Children[2]
	}
	if view == nil {
		return nil
	}

	if len(decoration) > 0 {
		if extra == nil {
			extra = make(vdom.Props, len(decoration))
		}
		// Copied as is: nil values must reach the child to delete its props.
		for k, v := range decoration {
			extra[vdom.AttrName(k)] = v
		}
	}
	return view.WithExtraAttributes(extra)
}
