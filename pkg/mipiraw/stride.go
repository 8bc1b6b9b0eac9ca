package mipiraw

// Reshape splits buf into Height row views of RowBytes bytes each, dropping
// the stride padding. The views alias buf and are capped so that padding is
// never reachable through them. buf must be exactly RowStride*Height bytes.
func Reshape(buf []byte, d Descriptor) ([][]byte, error) {
	if err := d.Check(len(buf)); err != nil {
		return nil, err
	}
	n := d.RowBytes()
	rows := make([][]byte, d.Height)
	for y := range rows {
		off := y * d.RowStride
		rows[y] = buf[off : off+n : off+n]
	}
	return rows, nil
}
