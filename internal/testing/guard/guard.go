package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("OSEON_TEST_MODE") == "" {
			_ = os.Setenv("OSEON_TEST_MODE", "1")
		}
	})
}
