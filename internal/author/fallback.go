package author

import (
	"context"
	"strings"
	"unicode/utf8"
)

// fallbackTitleLimit caps how much of the prompt is folded into the
// degraded note's title.
const fallbackTitleLimit = 60

// FallbackWriter is the deterministic degraded writer used when no real
// authoring agent is available or the agent misses its deadline. It always
// succeeds and always produces a syntactically valid note so that the
// illustrate and publish stages can proceed in degraded mode.
type FallbackWriter struct{}

// NewFallbackWriter creates the degraded writer.
func NewFallbackWriter() *FallbackWriter {
	return &FallbackWriter{}
}

// Name implements Agent.
func (w *FallbackWriter) Name() string {
	return "fallback"
}

// Available implements Agent. The fallback is always available; it is the
// terminal element of the agent chain.
func (w *FallbackWriter) Available() bool {
	return true
}

// Write produces the degraded note. The title folds in the head of the
// prompt so different days remain distinguishable in the index; the
// content is fixed and clearly marked as generated.
func (w *FallbackWriter) Write(_ context.Context, req Request) (*Note, error) {
	return &Note{
		Title:   "觀察：" + truncateRunes(promptHead(req.Prompt), fallbackTitleLimit),
		Content: "我最近觀察到技術領域裡的一些趨勢，以下是整理與心得。\n\n（此為自動產生的替代內容，正式運作時由外部寫作代理撰寫。）\n",
		Sources: req.Sources,
		Tag:     "#tech-radar",
	}, nil
}

// promptHead returns the first non-empty prompt line.
func promptHead(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return "今日筆記"
}

// truncateRunes shortens s to at most n runes without splitting one.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
