// Package docs holds the user documentation of ewt, one markdown file per topic.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed *.md
var docs embed.FS

// Get returns the content of the topics, concatenated. "*" expands to every topic.
func Get(topics ...string) (string, error) {
	var b bytes.Buffer
	for _, topic := range topics {
		names := []string{topic}
		if topic == "*" {
			names = All()
		}
		for _, name := range names {
			content, err := read(name)
			if err != nil {
				return "", err
			}
			b.Write(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// All returns the sorted names of every topic, the readme excluded.
func All() []string {
	files, _ := fs.Glob(docs, "*.md") // the pattern is valid
	var topics []string
	for _, f := range files {
		if name := strings.TrimSuffix(f, ".md"); name != "readme" {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics
}

// Title returns the text of the first heading of a topic.
func Title(topic string) (string, error) {
	content, err := read(topic)
	if err != nil {
		return "", err
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		var b strings.Builder
		for i := 0; i < h.Lines().Len(); i++ {
			seg := h.Lines().At(i)
			b.Write(seg.Value(content))
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("topic %q has no title", topic)
}

func read(topic string) ([]byte, error) {
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return nil, fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return content, nil
}
