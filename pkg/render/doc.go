// Package render serializes vdom trees to HTML.
//
// The renderer handles text and attribute escaping, void elements, boolean
// attributes and inline style maps (vdom.Style). Function-valued props such
// as callbacks never reach the output.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// RenderPage wraps a body node in a complete HTML document; the preview
// server uses it for the rendered image loader pages.
//
// All text content is escaped. Raw HTML can be inserted using KindRaw
// nodes, but should only be used with trusted content.
package render
