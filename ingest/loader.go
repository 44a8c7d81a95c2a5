package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// supportedExtensions maps file extensions to their content extractors.
var supportedExtensions = map[string]func([]byte) (string, error){
	".txt":  loadPlainText,
	".md":   loadMarkdown,
	".html": loadHTML,
	".htm":  loadHTML,
}

// LoadFile reads one file into a Document. Markdown and HTML files are
// reduced to their plain text; anything else is taken verbatim.
func LoadFile(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extract, ok := supportedExtensions[ext]
	if !ok {
		extract = loadPlainText
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	content, err := extract(data)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	filename := filepath.Base(path)
	return Document{
		Content: content,
		Metadata: map[string]any{
			"source":    filename,
			"filename":  filename,
			"extension": ext,
		},
	}, nil
}

// LoadDirectory reads every supported file directly under dir, in filename
// order, one file per document.
func LoadDirectory(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		doc, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadPlainText(data []byte) (string, error) {
	return string(data), nil
}

// loadMarkdown renders the markdown to HTML, strips any unsafe markup and
// extracts the text.
func loadMarkdown(data []byte) (string, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML(data, p, renderer)
	return loadHTML(rendered)
}

func loadHTML(data []byte) (string, error) {
	sanitized := bluemonday.UGCPolicy().SanitizeBytes(data)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(sanitized)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Text()), nil
}
