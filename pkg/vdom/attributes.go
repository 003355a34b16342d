package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute from a raw declaration string.
func StyleAttr(style string) Attr { return attr("style", style) }

// Styles sets the style attribute from a property map.
func Styles(style Style) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("status", "loaded") → data-status="loaded"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaBusy sets the aria-busy attribute.
func AriaBusy(busy bool) Attr { return attr("aria-busy", busy) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// Visibility attributes

// Hidden sets the hidden attribute.
func Hidden() Attr { return attr("hidden", true) }

// Media attributes

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// Loading sets the loading attribute.
func Loading(mode string) Attr { return attr("loading", mode) }

// Decoding sets the decoding attribute.
func Decoding(mode string) Attr { return attr("decoding", mode) }

// Srcset sets the srcset attribute.
func Srcset(srcset string) Attr { return attr("srcset", srcset) }

// ClassNames joins class values into a single class string.
// Empty values are dropped and map entries are included when true
// (sorted, so output is stable).
func ClassNames(classes ...any) string {
	var result []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			result = appendFields(result, v)
		case []string:
			for _, s := range v {
				result = appendFields(result, s)
			}
		case map[string]bool:
			for _, class := range sortedKeys(v) {
				if v[class] {
					result = appendFields(result, class)
				}
			}
		}
	}
	return strings.Join(result, " ")
}

func appendFields(dst []string, s string) []string {
	return append(dst, strings.Fields(s)...)
}
