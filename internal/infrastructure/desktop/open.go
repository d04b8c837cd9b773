package desktop

import (
	"fmt"

	"github.com/pkg/browser"
)

// Opener opens URLs in the host's default browser. Used for the
// external-client handoff where the operator completes the trade in a
// desktop client.
type Opener struct{}

func NewOpener() Opener {
	return Opener{}
}

func (Opener) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("browser.OpenURL: %w", err)
	}

	return nil
}
