package parallel

// MinBandRows is the smallest band height worth a separate task.
const MinBandRows = 8

// Band is a half-open row range [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int { return b.Y1 - b.Y0 }

// SplitRows divides height rows into at most parts contiguous bands of at
// least MinBandRows rows each (except when height itself is smaller).
// Bands cover [0, height) exactly once, in order.
func SplitRows(height, parts int) []Band {
	if height <= 0 {
		return nil
	}
	parts = max(1, min(parts, (height+MinBandRows-1)/MinBandRows))

	bands := make([]Band, 0, parts)
	base, extra := height/parts, height%parts
	y := 0
	for i := range parts {
		n := base
		if i < extra {
			n++
		}
		bands = append(bands, Band{Y0: y, Y1: y + n})
		y += n
	}
	return bands
}

// ForRows runs fn over [0, height) split into bands, one task per band, and
// returns when every band is done. With a nil pool the bands run serially.
func ForRows(p *WorkerPool, height int, fn func(y0, y1 int)) {
	if p == nil {
		if height > 0 {
			fn(0, height)
		}
		return
	}

	// Oversplit so stealing can even out uneven bands.
	bands := SplitRows(height, p.Workers()*2)
	tasks := make([]func(), len(bands))
	for i, b := range bands {
		tasks[i] = func() { fn(b.Y0, b.Y1) }
	}
	p.ExecuteAll(tasks)
}
