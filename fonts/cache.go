package fonts

import (
	"fmt"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"label-server/core"
)

// Cache keeps parsed font files in memory. Faces are created per call since
// a font.Face must not be shared between goroutines.
type Cache struct {
	parsed *cache.Cache
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{parsed: cache.New(ttl, 2*ttl)}
}

// Face returns a face of the font at path sized to size pixels.
func (c *Cache) Face(path string, size int) (font.Face, error) {
	f, err := c.load(path)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFontUnavailable, err)
	}
	return face, nil
}

func (c *Cache) load(path string) (*opentype.Font, error) {
	if v, ok := c.parsed.Get(path); ok {
		return v.(*opentype.Font), nil
	}

	data, ok := builtinData(path)
	if !ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrFontUnavailable, err)
		}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFontUnavailable, path, err)
	}
	c.parsed.SetDefault(path, f)
	return f, nil
}
