// Package parser extracts proposed file contents from LLM chat output.
// A proposal is a fenced code block preceded by a paragraph naming the
// target path in backticks, e.g.
//
//	`src/app.go`
//
//	```go
//	package app
//	```
package parser

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/sokinpui/sift/model"
)

// pathInHintRegex matches a backticked path in the hint paragraph.
var pathInHintRegex = regexp.MustCompile("`([^`\n]+)`")

// fencedBlock is one fenced code block with its preceding-paragraph hint.
type fencedBlock struct {
	hint string
	lang string
	body string
}

// Candidates parses markdown content and returns one candidate per fenced
// code block that names a target path. Blocks without a usable path hint
// are ignored; an extensions filter (ignored when empty) narrows the result.
func Candidates(content string, extensions []string) ([]model.Candidate, error) {
	blocks, err := scan([]byte(content))
	if err != nil {
		return nil, err
	}

	var candidates []model.Candidate
	for _, b := range blocks {
		path := pathFromHint(b.hint)
		if path == "" {
			continue
		}
		if !hasAllowedExtension(path, extensions) {
			continue
		}
		// The body keeps its trailing newline: files on disk conventionally
		// end with one, and the diff treats the resulting empty last line
		// as a real line.
		candidates = append(candidates, model.Candidate{
			Path:    path,
			Content: b.body,
		})
	}
	return candidates, nil
}

// scan walks the markdown AST collecting fenced code blocks.
func scan(source []byte) ([]fencedBlock, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []fencedBlock
	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var b fencedBlock
		if fenced.Info != nil {
			b.lang = string(fenced.Info.Text(source))
		}

		var body bytes.Buffer
		segments := fenced.Lines()
		for i := 0; i < segments.Len(); i++ {
			seg := segments.At(i)
			body.Write(seg.Value(source))
		}
		b.body = body.String()

		// The hint is taken from the raw source so the backticks around the
		// path survive; p.Text would strip the inline code markers.
		if prev := fenced.PreviousSibling(); prev != nil {
			if p, ok := prev.(*ast.Paragraph); ok {
				var hint bytes.Buffer
				hintLines := p.Lines()
				for i := 0; i < hintLines.Len(); i++ {
					seg := hintLines.At(i)
					hint.Write(seg.Value(source))
				}
				b.hint = strings.TrimSpace(hint.String())
			}
		}

		blocks = append(blocks, b)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// pathFromHint pulls a backticked path out of the hint paragraph. Paths
// with spaces are rejected so a command like `go run main.go` is not
// mistaken for one.
func pathFromHint(hint string) string {
	match := pathInHintRegex.FindStringSubmatch(hint)
	if len(match) < 2 {
		return ""
	}
	path := strings.TrimSpace(match[1])
	if path == "" || strings.Contains(path, " ") {
		return ""
	}
	return path
}

func hasAllowedExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
