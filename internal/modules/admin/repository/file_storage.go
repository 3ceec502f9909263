package repository

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// FileStorage reads the admin allow list from a flat text file with one
// numeric ID per line. Blank lines and lines starting with # are ignored.
type FileStorage struct {
	path string
}

// NewFileStorage creates a new file-based admin list repository
func NewFileStorage(path string) Repository {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load() ([]int64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, oops.With("admins_file", s.path, "context", "failed to read admins file").Wrap(err)
	}

	var ids []int64
	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			slog.Warn("Skipping malformed admins file line",
				"file", s.path,
				"line", lineNo+1,
				"content", line)
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}
