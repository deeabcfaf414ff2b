package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed sprites/*.png
var spritesFS embed.FS

// Sprite loads one sprite by the name a pack references it with, e.g.
// "stand.png". An on-disk copy under assets/sprites/ shadows the embedded
// one so packs can be reskinned without rebuilding.
func Sprite(name string) (*ebiten.Image, error) {
	clean := cleanSpritePath(name)
	data, err := os.ReadFile(diskSpritePath(clean))
	if err != nil {
		data, err = spritesFS.ReadFile(clean)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", name, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// Sprites preloads every named sprite, failing on the first missing one so
// a bad pack is caught at load rather than mid-animation.
func Sprites(names []string) (map[string]*ebiten.Image, error) {
	images := make(map[string]*ebiten.Image, len(names))
	for _, name := range names {
		img, err := Sprite(name)
		if err != nil {
			return nil, err
		}
		images[name] = img
	}
	return images, nil
}

func cleanSpritePath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "assets/sprites/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "sprites/"); ok {
		s = after
	}

	return "sprites/" + s
}

func diskSpritePath(clean string) string {
	return filepath.Join("assets", filepath.FromSlash(clean))
}
