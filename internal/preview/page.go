package preview

import (
	"github.com/vango-dev/imageloader/pkg/vdom"
)

const previewCSS = `body { font-family: system-ui, sans-serif; margin: 2rem; }
.imageloader img { max-width: 100%; }
.imageloader-spinner { display: inline-block; width: 1rem; height: 1rem; border: 2px solid #ccc; border-top-color: #333; border-radius: 50%; }
.imageloader-error { color: #b91c1c; }
figcaption { color: #555; margin-top: .5rem; }`

// pageBody lays out a settled frame as a captioned figure.
func pageBody(f Frame) *vdom.VNode {
	caption := vdom.Figcaption(
		vdom.Strong(f.Status),
		vdom.Text(" "),
		vdom.Text(f.Src),
	)
	if f.Error != "" {
		caption.Children = append(caption.Children, vdom.P(vdom.Class("imageloader-error"), f.Error))
	}
	return vdom.Figure(
		vdom.Data("status", f.Status),
		vdom.Raw(f.HTML),
		caption,
	)
}
