package uploads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/junaidrashid-git/shop-api/apperror"
)

// PublicPrefix is the URL path the upload directory is served under.
const PublicPrefix = "/uploads"

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store keeps uploaded files on local disk under Dir/<kind>/.
type Store struct {
	Dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// ImagePath names a new upload <unix-nano>_<base><ext> under Dir/<kind>/,
// creating the folder if needed. It returns the file path to write and the
// public path to store, e.g. /uploads/products/1700000000_shoe.png.
func (s *Store) ImagePath(kind, filename string) (dst, public string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", "", apperror.Validation("unsupported image type %q", ext)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ReplaceAll(base, " ", "_")
	name := fmt.Sprintf("%d_%s%s", s.now().UnixNano(), base, ext)

	dir := filepath.Join(s.Dir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating upload folder: %w", err)
	}
	return filepath.Join(dir, name), fmt.Sprintf("%s/%s/%s", PublicPrefix, kind, name), nil
}

// Remove deletes a file previously named by ImagePath. Missing files are
// not an error.
func (s *Store) Remove(publicPath string) error {
	if publicPath == "" {
		return nil
	}
	rel := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	kind, name := filepath.Split(rel)
	if name == "" || strings.Contains(kind, "..") {
		return fmt.Errorf("not an upload path: %q", publicPath)
	}

	err := os.Remove(filepath.Join(s.Dir, filepath.Clean(kind), filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
