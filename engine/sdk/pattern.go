package sdk

import (
	"fmt"
	"strings"

	"github.com/poiesic/seek/engine"
)

// checkPattern reports whether pattern can be handed to the library, which
// takes NUL-terminated strings.
func checkPattern(pattern string) error {
	if i := strings.IndexByte(pattern, 0); i >= 0 {
		return fmt.Errorf("%w: NUL at byte %d", engine.ErrPatternRejected, i)
	}
	return nil
}
