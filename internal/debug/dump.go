package debug

import (
	"bufio"
	"fmt"
	"io"

	"nesdot/internal/ppu"
)

// DumpFrame writes the frame buffer as hex text, one scanline per row
// group, for diffing frames between runs.
func DumpFrame(w io.Writer, frameBuffer *[ppu.ScreenWidth * ppu.ScreenHeight]uint32, frame uint64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "frame %d %dx%d\n", frame, ppu.ScreenWidth, ppu.ScreenHeight)
	for y := 0; y < ppu.ScreenHeight; y++ {
		fmt.Fprintf(bw, "%03d:", y)
		for x := 0; x < ppu.ScreenWidth; x++ {
			if x > 0 && x%16 == 0 {
				bw.WriteString("\n    ")
			}
			fmt.Fprintf(bw, " %06X", frameBuffer[y*ppu.ScreenWidth+x]&0xFFFFFF)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
