package wireenc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// encodeASCIIGrid writes an Esri ASCII grid: a small text header followed by
// one row of space-separated values per line, per §4.9's text output. No
// ecosystem package in the pack produces this text format, so it is
// hand-written; values stream directly from the lazy image without
// materializing a raster.
func encodeASCIIGrid(img lazyimg.Image, w io.Writer) error {
	if img.Channels() != 1 {
		return fmt.Errorf("%w: ascii grid requires a single-channel image, got %d channels", ErrUnsupportedForInput, img.Channels())
	}
	box := img.BBox()
	cellSize := box.Width() / float64(img.Width())
	nodata := 0.0
	if nd := img.NoData(); len(nd) > 0 {
		nodata = nd[0]
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", img.Width())
	fmt.Fprintf(bw, "nrows %d\n", img.Height())
	fmt.Fprintf(bw, "xllcorner %s\n", strconv.FormatFloat(box.MinX, 'f', -1, 64))
	fmt.Fprintf(bw, "yllcorner %s\n", strconv.FormatFloat(box.MinY, 'f', -1, 64))
	fmt.Fprintf(bw, "cellsize %s\n", strconv.FormatFloat(cellSize, 'f', -1, 64))
	fmt.Fprintf(bw, "NODATA_value %s\n", strconv.FormatFloat(nodata, 'f', -1, 64))

	row := make([]float64, img.Width())
	for y := 0; y < img.Height(); y++ {
		if err := img.FillLine(y, row); err != nil {
			return fmt.Errorf("wireenc: reading line %d: %w", y, err)
		}
		for x, v := range row {
			if x > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("wireenc: flushing ascii grid: %w", err)
	}
	return nil
}
