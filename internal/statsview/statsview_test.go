//go:build !statsview

package statsview

import (
	"bytes"
	"testing"
)

func TestLaunch_WithoutTag_ShouldBeInert(t *testing.T) {
	var out bytes.Buffer

	stop := Launch(&out, "")
	stop()

	if Available() {
		t.Error("statsview should be unavailable without the build tag")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}
