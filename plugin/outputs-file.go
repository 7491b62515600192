package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	Mt "github.com/maroda/ostinato/types"
)

// FileStore keeps the document as indented JSON on local disk.
// Saves go to a temp file in the same directory and are renamed into place.
type FileStore struct {
	MU   sync.Mutex
	Path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.Error("FileStore could not create directory", slog.Any("Error", err))
		return nil, fmt.Errorf("storage directory error: %w", err)
	}

	slog.Info("FileStore opened", slog.String("path", path))
	return &FileStore{Path: path}, nil
}

// Load returns the empty default document when the file does not exist yet.
func (fo *FileStore) Load() (*Mt.Composition, error) {
	fo.MU.Lock()
	defer fo.MU.Unlock()

	data, err := os.ReadFile(fo.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Mt.NewComposition(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return DocDecode(data)
}

func (fo *FileStore) Save(doc *Mt.Composition) error {
	fo.MU.Lock()
	defer fo.MU.Unlock()

	data, err := DocEncode(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fo.Path), ".track-*.json")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmp.Name(), fo.Path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Revision is the file modification time, 0 when there is no file.
// Writes made by other processes are picked up as well.
func (fo *FileStore) Revision() (int64, error) {
	info, err := os.Stat(fo.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano() ^ info.Size(), nil
}

func (fo *FileStore) Close() error { return nil }

func (fo *FileStore) Type() string { return "File" }

// DocEncode is the on-disk JSON form shared by every storage.
func DocEncode(doc *Mt.Composition) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func DocDecode(data []byte) (*Mt.Composition, error) {
	var doc Mt.Composition
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}
