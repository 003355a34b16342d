// Package imageloader implements an image loading component: a status
// state machine that owns at most one in-flight fetch, and a renderer that
// presents one of three child views depending on that status.
//
// A Loader is created with exactly three children, in order: the view shown
// once the image is loaded, the view shown when loading failed, and the view
// shown while pending or loading.
//
//	l, err := imageloader.New(imageloader.Props{
//	    Src: "https://example.com/avatar.png",
//	    Children: []imageloader.View{
//	        vdom.Img(vdom.Alt("avatar")),
//	        vdom.Span(vdom.Class("broken"), vdom.Text("failed to load")),
//	        vdom.Div(vdom.Class("spinner")),
//	    },
//	}, imageloader.WithFetcher(fetch.NewClient(eventLoop)))
//
// # Status
//
// The status is pending when Src is empty. A non-empty Src enters loading
// and starts a fetch; the fetch completion moves the loader to loaded or
// failed, which are terminal until Src changes again. Failures are never
// retried and never returned as errors: they are reported through
// Props.OnError and the failed status.
//
// # Threading
//
// A Loader is not safe for concurrent use. All calls, including fetch
// completions, must run on one goroutine; fetch.Client achieves this by
// delivering completions through a loop.Loop. Starting a fetch always
// releases the previous handle first, so a late completion of an older
// fetch can never change the status.
//
// # Rendering
//
// Render wraps the selected child in a div carrying the class token
// "imageloader imageloader-<status>" merged with Props.ClassName. In pure
// mode no wrapper is produced and the decoration is merged onto the child.
package imageloader
