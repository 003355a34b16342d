// Package vdom provides the virtual node tree used to describe image loader
// views.
//
// A VNode represents an element, text, fragment, component or raw HTML.
// Props holds attributes; Attr values are built with the helper functions
// and passed to element factories:
//
//	Img(Class("avatar"), Alt("profile picture"))
//	Div(Class("spinner"), AriaBusy(true), Text("Loading…"))
//
// # Presentable views
//
// Views handed to the image loader are decorated without being mutated:
// WithExtraAttributes clones a node and merges additional props over its own,
// which is how the loaded view receives its resolved src and how pure mode
// moves the container decoration onto the selected child.
//
// ClassNames composes class tokens (dropping empties) and Style renders an
// inline style map deterministically.
package vdom
