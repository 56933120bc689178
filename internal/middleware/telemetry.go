package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// trackedPrefixes are the namespaces whose traffic is counted
var trackedPrefixes = []string{"/api/", "/auth/"}

func isTracked(path string) bool {
	for _, prefix := range trackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

type endpointRecorder interface {
	Record(method, path string) error
}

// TrackEndpoints records every API request against the endpoint counters.
// Recording happens after the handler chain, off the request goroutine, and
// a failed write is logged and dropped: telemetry must never affect the
// client-visible response.
func TrackEndpoints(tracker endpointRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Copies, not views: fasthttp recycles the request buffers once
		// the handler returns, before the recording goroutine reads them
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Path())

		err := c.Next()

		if isTracked(path) {
			go func() {
				if err := tracker.Record(method, path); err != nil {
					log.Printf("Endpoint telemetry write failed for %s %s: %v", method, path, err)
				}
			}()
		}

		return err
	}
}
