package notify

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

// tokenSentinel stands in for UnsubscribeToken while rendering; goldmark
// percent-encodes the braces when the token is used as a link target.
const tokenSentinel = "syllatechunsubscribeurl"

// RenderBody turns an admin-authored body into HTML. Bodies without any
// markup are treated as markdown so plain text keeps its line breaks.
func RenderBody(body string) (string, error) {
	if strings.ContainsAny(body, "<>") {
		return body, nil
	}
	var buf bytes.Buffer
	src := strings.ReplaceAll(body, UnsubscribeToken, tokenSentinel)
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.ReplaceAll(buf.String(), tokenSentinel, UnsubscribeToken), nil
}
