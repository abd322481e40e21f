// Package advisory turns model results into benchmark ratings, written
// recommendations and a risk register.
package advisory

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// Insight levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelSuccess = "success"
)

// Insight is one generated recommendation. Message may contain Markdown
// emphasis.
type Insight struct {
	Level   string `json:"level"`
	Icon    string `json:"icon"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Markdown renders the insight as a single Markdown paragraph.
func (i Insight) Markdown() string {
	return fmt.Sprintf("**%s**: %s", i.Title, i.Message)
}

// Markdown renders insights as a numbered Markdown list.
func Markdown(insights []Insight) string {
	var b strings.Builder
	for n, i := range insights {
		fmt.Fprintf(&b, "%d. %s\n", n+1, i.Markdown())
	}
	return b.String()
}

// RenderHTML converts insights to an HTML ordered list.
func RenderHTML(insights []Insight) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(insights)), &buf); err != nil {
		return "", fmt.Errorf("failed to render recommendations: %w", err)
	}
	return buf.String(), nil
}
