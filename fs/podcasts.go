package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stankin-rag/priem"
)

// LoadPodcasts reads every .json file in dir. A file holds one podcast
// object or an array of them. Files that fail to decode are logged and
// skipped; a missing directory returns ENOTFOUND.
func LoadPodcasts(dir string, logger *slog.Logger) ([]priem.Podcast, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, priem.Errorf(priem.ENOTFOUND, "podcast directory %s not found", dir)
	} else if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var podcasts []priem.Podcast
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		ps, err := decodePodcasts(data)
		if err != nil {
			logger.Warn("podcast file skipped", "file", path, "err", err)
			continue
		}
		podcasts = append(podcasts, ps...)
	}
	return podcasts, nil
}

func decodePodcasts(data []byte) ([]priem.Podcast, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if data[0] == '[' {
		var ps []priem.Podcast
		if err := json.Unmarshal(data, &ps); err != nil {
			return nil, err
		}
		return ps, nil
	}
	var p priem.Podcast
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return []priem.Podcast{p}, nil
}
