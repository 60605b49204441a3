package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSize is returned for a size modifier outside the known set.
var ErrInvalidSize = errors.New("invalid size")

// Sizes lists the accepted size modifiers; the empty string means none.
var Sizes = []string{"2k", "4k", "8k", "hd", "wallpaper"}

// Query is what the user searched for.
type Query struct {
	Text string
	Size string
}

// Validate checks the size modifier.
func (q Query) Validate() error {
	switch q.Size {
	case "", "2k", "4k", "8k", "hd", "wallpaper":
		return nil
	default:
		return fmt.Errorf("%w: %q, expected one of %s", ErrInvalidSize, q.Size, strings.Join(Sizes, ", "))
	}
}

// Format applies the size modifier for free-text engines.
// Tag based providers use Text as is.
func (q Query) Format() string {
	text := strings.TrimSpace(q.Text)
	switch q.Size {
	case "":
		return text
	case "wallpaper":
		return text + " wallpaper"
	default:
		return text + " " + q.Size + " wallpaper"
	}
}
