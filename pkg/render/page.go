package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vango-dev/imageloader/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// Styles contains inline CSS styles
	Styles []string

	// Scripts contains inline scripts appended to the end of the body
	Scripts []string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name    string // name attribute
	Content string // content attribute
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	for _, script := range page.Scripts {
		if _, err := fmt.Fprintf(w, "\n<script>%s</script>", script); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n</body>\n</html>\n")
	return err
}

// RenderPageToString renders a complete HTML document to a string.
func (r *Renderer) RenderPageToString(page PageData) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta charset="utf-8">`+"\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, meta := range page.Meta {
		if meta.Name == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, `  <meta name="%s" content="%s">`+"\n",
			escapeAttr(meta.Name), escapeAttr(meta.Content)); err != nil {
			return err
		}
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}
