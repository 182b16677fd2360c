package integration

import (
	"image/png"
	"os"
	"testing"

	"github.com/jyane/jnes/nes"
)

// TestHelloWorld renders sample1.nes until its first frame and compares it
// against a golden PNG. Skips if the fixtures aren't present in this
// checkout.
func TestHelloWorld(t *testing.T) {
	console, err := nes.Load("sample1.nes", false)
	if err != nil {
		t.Skipf("sample1.nes not available: %v", err)
	}
	r, err := os.Open("helloworld.png")
	if err != nil {
		t.Skipf("helloworld.png not available: %v", err)
	}
	defer r.Close()
	want, err := png.Decode(r)
	if err != nil {
		t.Fatalf("decode golden png: %v", err)
	}
	if err := console.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	got := console.FrameBuffer()
	for y := 0; y < got.Rect.Max.Y; y++ {
		for x := 0; x < got.Rect.Max.X; x++ {
			if got.At(x, y) != want.At(x, y) {
				t.Errorf("rendered color at (%d, %d) = %v, want %v", x, y, got.At(x, y), want.At(x, y))
			}
		}
	}
}
