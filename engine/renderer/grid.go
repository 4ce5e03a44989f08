package renderer

import (
	"fmt"

	"github.com/spaghettifunk/graphpunk/engine/resources"
)

// PixelKey is the store key of the grid pixel at (x, y).
func PixelKey(x, y int) string {
	return fmt.Sprintf("pixel_%d_%d", x, y)
}

func (r *Renderer) checkBounds(x, y int) error {
	if x < 0 || y < 0 || x >= int(r.displaySize.X) || y >= int(r.displaySize.Y) {
		return fmt.Errorf("pixel (%d, %d) on %dx%d grid: %w", x, y, r.displaySize.X, r.displaySize.Y, ErrOutOfBounds)
	}
	return nil
}

// GetPixel borrows the grid pixel at (x, y). The caller releases it.
func (r *Renderer) GetPixel(store *resources.Store, x, y int) (*resources.Ref[Drawable], error) {
	if err := r.checkBounds(x, y); err != nil {
		return nil, err
	}
	return resources.GetRef[Drawable](store, PixelKey(x, y))
}

// SetGridPixel shows or hides the grid pixel at (x, y).
func (r *Renderer) SetGridPixel(store *resources.Store, x, y int, value bool) error {
	if err := r.checkBounds(x, y); err != nil {
		return err
	}
	return resources.WithMut(store, PixelKey(x, y), func(d *Drawable) error {
		(*d).SetVisible(value)
		return nil
	})
}

// ToggleGridPixel flips the visibility of the grid pixel at (x, y).
func (r *Renderer) ToggleGridPixel(store *resources.Store, x, y int) error {
	if err := r.checkBounds(x, y); err != nil {
		return err
	}
	return resources.WithMut(store, PixelKey(x, y), func(d *Drawable) error {
		(*d).SetVisible(!(*d).IsVisible())
		return nil
	})
}

// ClearGridPixel hides every grid pixel. It stops at the first pixel that
// cannot be borrowed.
func (r *Renderer) ClearGridPixel(store *resources.Store) error {
	for y := 0; y < int(r.displaySize.Y); y++ {
		for x := 0; x < int(r.displaySize.X); x++ {
			if err := r.SetGridPixel(store, x, y, false); err != nil {
				return err
			}
		}
	}
	return nil
}
