package products

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"jpos/utils"
)

const thumbWidth = 300

// saveImage decodes an uploaded image and writes the original and a
// thumbnail under dir. It returns the relative paths of both files.
func saveImage(src io.Reader, dir, ext string) (string, string, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", fmt.Errorf("decode image: %w", err)
	}

	name := utils.GetUUID() + ext
	thumbDir := filepath.Join(dir, "thumb")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return "", "", fmt.Errorf("save image: %w", err)
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, name)); err != nil {
		removeImages(dir, name)
		return "", "", fmt.Errorf("save thumbnail: %w", err)
	}
	return name, "thumb/" + name, nil
}

// removeImages deletes files written by saveImage, best effort.
func removeImages(dir string, names ...string) {
	for _, name := range names {
		_ = os.Remove(filepath.Join(dir, filepath.FromSlash(name)))
	}
}
