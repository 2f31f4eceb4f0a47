package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/stankin-rag/priem"
	"gopkg.in/yaml.v3"
)

// PageStore saves crawled pages as markdown files with a YAML header.
// Pages are written to a temporary directory and moved into place on Commit,
// so an interrupted crawl leaves the previous snapshot intact.
type PageStore struct {
	baseDir string
	name    string

	// Now returns the crawl date written into each header.
	Now func() time.Time
}

// NewPageStore creates a PageStore writing to baseDir/name.
func NewPageStore(baseDir, name string) *PageStore {
	return &PageStore{
		baseDir: baseDir,
		name:    name,
		Now:     time.Now,
	}
}

func (s *PageStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// Dir returns the directory holding the committed pages.
func (s *PageStore) Dir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes page into the pending snapshot.
func (s *PageStore) Save(page *priem.Page) error {
	rel, err := URLToPath(page.URL)
	if err != nil {
		return err
	}
	data, err := FormatPage(page, s.Now())
	if err != nil {
		return err
	}

	full := filepath.Join(s.tempDir(), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0644)
}

// Commit replaces the committed snapshot with the pending one.
func (s *PageStore) Commit() error {
	if err := os.RemoveAll(s.Dir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.Dir())
}

// Abort discards the pending snapshot.
func (s *PageStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// URLToPath maps a page URL to a relative slash-separated markdown path.
// The query string becomes part of the file name, since the site serves
// distinct pages from one path.
//
//	https://example.com/priem/           -> priem/index.md
//	https://example.com/news?id=5        -> news_id=5.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", priem.Errorf(priem.EINVALID, "invalid page URL %q", rawURL)
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return "", priem.Errorf(priem.EINVALID, "path traversal in %q", rawURL)
		}
	}

	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if p == "" || strings.HasSuffix(u.Path, "/") {
		p = path.Join(p, "index")
	}
	if u.RawQuery != "" {
		q := strings.NewReplacer("/", "_", "&", "_", "?", "_").Replace(u.RawQuery)
		p += "_" + q
	}
	return p + ".md", nil
}

// pageHeader is the YAML header of a stored page.
type pageHeader struct {
	Source  string `yaml:"source"`
	Title   string `yaml:"title"`
	Crawled string `yaml:"crawled"`
}

const headerFence = "---\n"

// FormatPage renders page as markdown with a YAML header.
func FormatPage(page *priem.Page, crawled time.Time) ([]byte, error) {
	header, err := yaml.Marshal(pageHeader{
		Source:  page.URL,
		Title:   page.Title,
		Crawled: crawled.Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding page header: %w", err)
	}

	var b bytes.Buffer
	b.WriteString(headerFence)
	b.Write(header)
	b.WriteString(headerFence)
	b.WriteString("\n")
	b.WriteString(page.Text)
	return b.Bytes(), nil
}

// ParsePage reads a page written by FormatPage.
func ParsePage(data []byte) (*priem.Page, error) {
	s := string(data)
	if !strings.HasPrefix(s, headerFence) {
		return nil, priem.Errorf(priem.EINVALID, "page has no header")
	}
	header, body, ok := strings.Cut(s[len(headerFence):], "\n"+headerFence)
	if !ok {
		return nil, priem.Errorf(priem.EINVALID, "page header is not terminated")
	}

	var h pageHeader
	if err := yaml.Unmarshal([]byte(header), &h); err != nil {
		return nil, priem.Errorf(priem.EINVALID, "invalid page header: %v", err)
	}
	return &priem.Page{
		URL:   h.Source,
		Title: h.Title,
		Text:  strings.TrimPrefix(body, "\n"),
	}, nil
}

// LoadPages reads every stored page under dir, ordered by path.
func LoadPages(dir string) ([]*priem.Page, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".md" {
			paths = append(paths, p)
		}
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, priem.Errorf(priem.ENOTFOUND, "page directory %s not found", dir)
	} else if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	pages := make([]*priem.Page, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		page, err := ParsePage(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}
