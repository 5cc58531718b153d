package compositor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/internal/image"
)

func newBuf(t *testing.T, w, h int) *image.ImageBuf {
	t.Helper()
	buf, err := image.NewImageBuf(w, h, image.FormatARGB8888)
	require.NoError(t, err)
	return buf
}

func pixel(buf *image.ImageBuf, x, y int) [4]uint8 {
	r, g, b, a := buf.GetRGBA(x, y)
	return [4]uint8{r, g, b, a}
}

func TestFillBackgroundDefault(t *testing.T) {
	buf := newBuf(t, 8, 4)
	FillBackground(buf, nil)

	for y := range 4 {
		for x := range 8 {
			require.Equal(t, [4]uint8{0, 0, 0, 0xbf}, pixel(buf, x, y))
		}
	}
	// Memory order is B, G, R, A.
	assert.Equal(t, []byte{0, 0, 0, 0xbf}, buf.Data()[:4])
}

func TestFillBackgroundSolid(t *testing.T) {
	buf := newBuf(t, 3, 3)
	FillBackground(buf, Solid{Color: halo.RGBA{R: 1, G: 0, B: 0, A: 1}})

	assert.Equal(t, [4]uint8{255, 0, 0, 255}, pixel(buf, 2, 2))
	assert.Equal(t, []byte{0, 0, 255, 255}, buf.Data()[:4])
}

type stubSource struct {
	img *image.ImageBuf
	err error
}

func (s stubSource) Image(int, int) (*image.ImageBuf, error) { return s.img, s.err }

func TestPatternCopiesSource(t *testing.T) {
	src := newBuf(t, 2, 2)
	require.NoError(t, src.SetRGBA(1, 1, 10, 20, 30, 40))

	dst := newBuf(t, 2, 2)
	dst.Fill(9, 9, 9, 9)
	FillBackground(dst, Pattern{Source: stubSource{img: src}})

	assert.Equal(t, [4]uint8{0, 0, 0, 0}, pixel(dst, 0, 0))
	assert.Equal(t, [4]uint8{10, 20, 30, 40}, pixel(dst, 1, 1))
}

func TestPatternFallback(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"error", stubSource{err: errors.New("decode failed")}},
		{"wrong size", stubSource{img: &image.ImageBuf{}}},
		{"nil source", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := newBuf(t, 2, 2)
			FillBackground(dst, Pattern{Source: tt.src, Fallback: halo.DefaultBackground})
			assert.Equal(t, [4]uint8{0, 0, 0, 0xbf}, pixel(dst, 1, 0))
		})
	}
}

func TestDrawIndicatorLuminosity(t *testing.T) {
	buf := newBuf(t, 100, 100)
	FillBackground(buf, Solid{Color: halo.DefaultBackground})
	DrawIndicator(buf, 50, 50, 10, halo.DefaultIndicator)

	inside := [4]uint8{63, 63, 63, 207}
	outside := [4]uint8{0, 0, 0, 0xbf}

	assert.Equal(t, inside, pixel(buf, 50, 50))
	assert.Equal(t, inside, pixel(buf, 60, 50), "edge of the circle is covered")
	assert.Equal(t, inside, pixel(buf, 50, 40))
	assert.Equal(t, outside, pixel(buf, 61, 50))
	assert.Equal(t, outside, pixel(buf, 58, 58), "8²+8² > 10²")
	assert.Equal(t, inside, pixel(buf, 56, 58), "6²+8² = 10²")
}

func TestDrawIndicatorCoverageIsExact(t *testing.T) {
	const w, h, cx, cy, r = 40, 30, 12, 9, 7
	buf := newBuf(t, w, h)
	FillBackground(buf, Solid{Color: halo.DefaultBackground})
	DrawIndicator(buf, cx, cy, r, halo.DefaultIndicator)

	for y := range h {
		for x := range w {
			dx, dy := x-cx, y-cy
			want := dx*dx+dy*dy <= r*r
			got := pixel(buf, x, y)[3] != 0xbf
			require.Equal(t, want, got, "pixel (%d,%d)", x, y)
		}
	}
}

func TestDrawIndicatorClipsAtEdges(t *testing.T) {
	tests := []struct {
		name   string
		cx, cy int
	}{
		{"top left corner", 0, 0},
		{"bottom right corner", 19, 19},
		{"beyond right edge", 25, 10},
		{"above top edge", 10, -5},
		{"far outside", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newBuf(t, 20, 20)
			FillBackground(buf, nil)
			DrawIndicator(buf, tt.cx, tt.cy, 8, halo.DefaultIndicator)

			for y := range 20 {
				for x := range 20 {
					dx, dy := x-tt.cx, y-tt.cy
					want := dx*dx+dy*dy <= 64
					got := pixel(buf, x, y)[3] != 0xbf
					require.Equal(t, want, got, "pixel (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestDrawIndicatorZeroRadius(t *testing.T) {
	buf := newBuf(t, 5, 5)
	FillBackground(buf, nil)
	DrawIndicator(buf, 2, 2, 0, halo.DefaultIndicator)
	DrawIndicator(buf, 2, 2, -1, halo.DefaultIndicator)

	assert.Equal(t, uint8(207), pixel(buf, 2, 2)[3])
	assert.Equal(t, uint8(0xbf), pixel(buf, 1, 2)[3])
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name                 string
		cx, cy, radius, j, w int
		wantStart, wantEnd   int
		wantOK               bool
	}{
		{"center row", 50, 50, 40, 50, 800, 10, 90, true},
		{"top row", 50, 50, 40, 10, 800, 50, 50, true},
		{"outside", 50, 50, 40, 91, 800, 0, 0, false},
		{"clipped left", 10, 50, 40, 50, 800, 0, 50, true},
		{"clipped right", 790, 50, 40, 50, 800, 750, 799, true},
		{"entirely left", -50, 50, 40, 50, 800, 0, 0, false},
		{"entirely right", 850, 50, 40, 50, 800, 0, 0, false},
		{"partial row", 0, 0, 5, 3, 10, 0, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := Span(tt.cx, tt.cy, tt.radius, tt.j, tt.w)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantStart, start)
				assert.Equal(t, tt.wantEnd, end)
			}
		})
	}
}

func TestIsqrt(t *testing.T) {
	for n := 0; n < 10000; n++ {
		x := isqrt(n)
		require.LessOrEqual(t, x*x, n)
		require.Greater(t, (x+1)*(x+1), n)
	}
}
