package render

import "github.com/vango-dev/imageloader/pkg/vdom"

// isVoidElement returns true if the tag is a void element.
func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}

// inlineElements are elements that are typically rendered inline
// and don't need newlines in pretty-printed output.
var inlineElements = map[string]bool{
	"a":          true,
	"b":          true,
	"code":       true,
	"em":         true,
	"figcaption": true,
	"i":          true,
	"small":      true,
	"span":       true,
	"strong":     true,
	"title":      true,
}

// isInlineElement returns true if the tag is an inline element.
func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs are attributes that don't need a value.
// When true, they're rendered as just the attribute name.
var booleanAttrs = map[string]bool{
	"async":    true,
	"autoplay": true,
	"controls": true,
	"defer":    true,
	"hidden":   true,
	"ismap":    true,
	"loop":     true,
	"muted":    true,
}

// isBooleanAttr returns true if the attribute is a boolean attribute.
func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
