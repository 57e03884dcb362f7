package service

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// RenderReflection 将每日反思的 Markdown 渲染并净化为可安全展示的 HTML。
func RenderReflection(content string) (template.HTML, error) {
	if content == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render reflection: %w", err)
	}

	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
