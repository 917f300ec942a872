package spritematte

import (
	"fmt"
	"image"
)

// Slice cuts img into a rows x cols grid of equally sized cells and returns
// them in row-major order. Each cell is an independent copy; img is only
// read. The grid must divide the image exactly, otherwise Slice returns an
// error wrapping ErrShapeMismatch.
func Slice(img *Image, rows, cols int) ([]*Image, error) {
	if !img.Valid() {
		return nil, fmt.Errorf("%w: image buffer does not match its size", ErrShapeMismatch)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d must be positive", ErrShapeMismatch, rows, cols)
	}
	if img.W%cols != 0 || img.H%rows != 0 {
		return nil, fmt.Errorf("%w: %dx%d image does not divide into %d rows x %d cols",
			ErrShapeMismatch, img.W, img.H, rows, cols)
	}
	cellW, cellH := img.W/cols, img.H/rows
	cells := make([]*Image, 0, rows*cols)
	for r := range rows {
		for c := range cols {
			x, y := c*cellW, r*cellH
			cells = append(cells, img.Crop(image.Rect(x, y, x+cellW, y+cellH)))
		}
	}
	return cells, nil
}
