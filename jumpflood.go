package outline

// JumpFloodRows runs one jump-flood pass with the given step width over rows
// [y0, y1) of dst, reading only from src.
//
// Each pixel considers its own seeds and those of the 8 pixels at
// step*(dx, dy), dx, dy in {-1, 0, 1}. Candidate coordinates are clamped to
// the buffer like the resolver's neighbor reads. For each layer the
// candidate with the smallest squared distance to the pixel's own center
// wins; ties keep the earlier candidate, the pixel itself first. Winning
// positions are copied, never recomputed.
//
// src and dst must be distinct buffers of equal size.
func JumpFloodRows(dst, src *SeedBuffer, step, y0, y1 int) {
	w, h := src.width, src.height
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			center := PixelCenter(x, y)

			self := src.data[y*w+x]
			bestA, bestB := self.A, self.B
			distA := bestA.Sub(center).LengthSq()
			distB := bestB.Sub(center).LengthSq()

			for dy := -1; dy <= 1; dy++ {
				ny := clampIndex(y+dy*step, h)
				row := ny * w
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					cand := src.data[row+clampIndex(x+dx*step, w)]
					if d := cand.A.Sub(center).LengthSq(); d < distA {
						bestA, distA = cand.A, d
					}
					if d := cand.B.Sub(center).LengthSq(); d < distB {
						bestB, distB = cand.B, d
					}
				}
			}

			dst.data[y*w+x] = SeedPair{A: bestA, B: bestB}
		}
	}
}
