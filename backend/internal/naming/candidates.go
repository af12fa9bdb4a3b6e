package naming

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var quotedName = regexp.MustCompile(`"(.*?)"`)

// Candidates pulls the double-quoted names out of an assistant reply.
// Markup in the reply is stripped first so tags can't leak into a name.
func Candidates(content string) []string {
	text := content
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		text = doc.Text()
	}

	seen := map[string]bool{}
	out := []string{}
	for _, m := range quotedName.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
