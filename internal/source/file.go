package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
)

// File reads group lists from the local filesystem.
type File struct {
	paths map[entity.GroupID]string
}

func NewFile(paths map[entity.GroupID]string) *File {
	return &File{paths: paths}
}

func (f *File) Name() string {
	return "file"
}

func (f *File) Load(_ context.Context, group entity.GroupID) []string {
	path, ok := f.paths[group]
	if !ok {
		return nil
	}
	return LoadFile(path)
}

// LoadFile never fails: an unreadable file is logged and yields what could be
// read, usually nothing.
func LoadFile(path string) []string {
	urls, err := readFile(path)
	if err != nil {
		slog.Error("failed to read url file", "path", path, "error", err)
	}
	return urls
}

func readFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return []string{}, fmt.Errorf("%w: %w", entity.ErrFileRead, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close url file", "path", path, "error", err)
		}
	}()

	urls, err := ParseLines(file)
	if err != nil {
		return urls, fmt.Errorf("%w: %s: %w", entity.ErrFileRead, path, err)
	}
	return urls, nil
}
