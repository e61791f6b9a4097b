package seek

import (
	"sync"

	"github.com/poiesic/seek/engine/sdk"
)

var defaultExecutor = sync.OnceValues(func() (*Executor, error) {
	eng, err := sdk.Open()
	if err != nil {
		return nil, err
	}
	return NewExecutor(eng)
})

// Default returns the process-wide executor over the platform search engine.
// It fails with sdk.ErrUnsupportedPlatform where no engine is available.
func Default() (*Executor, error) {
	return defaultExecutor()
}
