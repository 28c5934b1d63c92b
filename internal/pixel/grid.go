package pixel

// Grid addresses a row-padded byte raster (such as a BMP payload) by byte
// coordinate. Stride is the row length in bytes and must be a multiple of 4
// so every row starts on a storage word.
type Grid struct {
	Stride int
	Height int
}

// Word returns the index of the storage word holding byte column x of row y.
// ok is false when the coordinate falls outside the raster.
func (g Grid) Word(x, y int) (i int, ok bool) {
	if x < 0 || y < 0 || x >= g.Stride || y >= g.Height {
		return -1, false
	}
	return x/4 + y*g.Stride/4, true
}

// Words returns the total number of storage words in the raster.
func (g Grid) Words() int {
	return g.Stride / 4 * g.Height
}
