// Package goquery implements HTML cleanup and link discovery on top of
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/stankin-rag/priem"
	"golang.org/x/net/html"
)

// Ensure Normalizer implements priem.Normalizer at compile time.
var _ priem.Normalizer = (*Normalizer)(nil)

// DefaultRemoveTags are elements that never carry program data.
var DefaultRemoveTags = []string{
	"script", "style", "nav", "header", "footer", "form", "iframe",
	"noscript", "meta", "link", "aside", "br",
}

// DefaultLayoutSelectors match the site's menu and footer containers.
var DefaultLayoutSelectors = []string{
	"div.block-0-menu-16",
	"nav#menu",
	"div#n",
	"header.landing-header",
	"div.landing-footer",
}

// DefaultMainSelector matches the site's main content container.
const DefaultMainSelector = "div.landing-main"

// blockElements get a trailing space so adjacent cells and paragraphs
// never run together.
const blockElements = "h1, h2, h3, h4, h5, h6, p, div, section, li, td, th, tr, span, hr, table"

// Normalizer reduces a page to one line of text in document order.
type Normalizer struct {
	converter       priem.Converter
	logger          *slog.Logger
	removeTags      []string
	layoutSelectors []string
	mainSelector    string
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithLayoutSelectors replaces the selectors of removed layout containers.
func WithLayoutSelectors(selectors ...string) NormalizerOption {
	return func(n *Normalizer) {
		n.layoutSelectors = selectors
	}
}

// WithMainSelector sets the selector of the main content container.
func WithMainSelector(selector string) NormalizerOption {
	return func(n *Normalizer) {
		n.mainSelector = selector
	}
}

// WithLogger sets the logger for dropped tables.
func WithLogger(logger *slog.Logger) NormalizerOption {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// NewNormalizer returns a Normalizer that renders tables with converter.
func NewNormalizer(converter priem.Converter, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		converter:       converter,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		removeTags:      DefaultRemoveTags,
		layoutSelectors: DefaultLayoutSelectors,
		mainSelector:    DefaultMainSelector,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize strips markup and layout from page and returns its text with
// whitespace collapsed. Tables are linearized row by row. Normalizing the
// output again returns it unchanged.
func (n *Normalizer) Normalize(page *priem.RawPage) (*priem.NormalizedText, error) {
	if strings.TrimSpace(page.HTML) == "" {
		return nil, priem.Errorf(priem.EINVALID, "empty HTML for %s", page.URL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, priem.Errorf(priem.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(strings.Join(n.removeTags, ", ")).Remove()
	for _, node := range doc.Nodes {
		removeComments(node)
	}
	for _, sel := range n.layoutSelectors {
		doc.Find(sel).Remove()
	}

	root := n.mainContainer(doc)
	n.linearizeTables(root, page.URL)
	root.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(&html.Node{Type: html.TextNode, Data: " "})
	})

	return &priem.NormalizedText{
		URL:  page.URL,
		Text: strings.Join(strings.Fields(neutralizeMarkup(root.Text())), " "),
	}, nil
}

var (
	tagOpen   = regexp.MustCompile(`<([a-zA-Z/!?])`)
	entityRef = regexp.MustCompile(`&([a-zA-Z#])`)
)

// neutralizeMarkup separates "<" and "&" from the character after them so
// decoded text never parses back as a tag or an entity.
func neutralizeMarkup(text string) string {
	text = tagOpen.ReplaceAllString(text, "< $1")
	return entityRef.ReplaceAllString(text, "& $1")
}

// mainContainer returns the main content container, the body, or the
// whole document, whichever exists first.
func (n *Normalizer) mainContainer(doc *goquery.Document) *goquery.Selection {
	if n.mainSelector != "" {
		if main := doc.Find(n.mainSelector).First(); main.Length() > 0 {
			return main
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// linearizeTables replaces each outermost table with its markdown
// rendering. A table that cannot be rendered is removed.
func (n *Normalizer) linearizeTables(root *goquery.Selection, url string) {
	root.Find("table").Each(func(i int, table *goquery.Selection) {
		if table.ParentsFiltered("table").Length() > 0 {
			return
		}
		text, err := n.renderTable(table)
		if err != nil {
			n.logger.Warn("table dropped", "url", url, "table", i, "err", err)
			table.Remove()
			return
		}
		table.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: " " + text + " "})
	})
}

func (n *Normalizer) renderTable(table *goquery.Selection) (string, error) {
	outer, err := goquery.OuterHtml(table)
	if err != nil {
		return "", err
	}
	return n.converter.Convert(outer)
}

func removeComments(node *html.Node) {
	for c := node.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			node.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}
