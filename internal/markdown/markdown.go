// Package markdown renders todo descriptions for the terminal.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

type rendererKey struct {
	width int
	color bool
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]*glamour.TermRenderer{}
)

// Render formats markdown text wrapped to width. Color selects the dark ANSI
// theme; otherwise output is plain ASCII. Input that fails to render is
// returned trimmed but otherwise untouched.
func Render(text string, width int, color bool) string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width < 1 {
		width = 1
	}

	renderer := rendererFor(rendererKey{width: width, color: color})
	if renderer == nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n")
}

func rendererFor(key rendererKey) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[key]; ok {
		return cached
	}

	var style ansi.StyleConfig
	if key.color {
		style = styles.DarkStyleConfig
	} else {
		style = styles.ASCIIStyleConfig
		style.Item.BlockPrefix = "- "
	}
	// no document margin so descriptions line up with the detail labels
	zero := uint(0)
	style.Document.Margin = &zero

	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(key.width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}
