// Package mongo manages the single MongoDB client a gateway process shares
// between requests.
//
// The process may be short-lived and receive its first request cold, so the
// Manager answers one question per request: is the cached client still usable,
// or does a new one have to be dialled? The answer is cheap on the hot path
// (a mutex-guarded state read) and the slow path is guarded by single-flight,
// so a burst of cold requests produces one dial instead of a connection storm.
//
// Key features:
//   - At most one live client per Manager; a stale client is disconnected before
//     a replacement is dialled
//   - Failed attempts are never cached, the next request tries again
//   - Bounded server selection, pool size, operation and idle timeouts
//   - Environment-driven configuration through struct tags
//   - Observer hook for metrics, Healthcheck for readiness probes
//
// # Usage
//
//	import (
//		"context"
//		"github.com/dmitrymomot/authgate/pkg/mongo"
//	)
//
//	func main() {
//		m := mongo.New(mongo.Config{
//			ConnectionURL: "mongodb://localhost:27017",
//		})
//		defer m.Close(context.Background())
//
//		if err := m.Ready(context.Background()); err != nil {
//			log.Fatal(err)
//		}
//
//		db, _ := m.Database(context.Background(), "")
//		_ = db.Collection("users")
//	}
//
// # States
//
// The cached client moves between Disconnected, Connecting, Connected and
// Disconnecting. Check downgrades a Connected client whose ping fails to
// Disconnected while keeping the handle, so the next Connect tears it down
// exactly once before dialling.
//
// # Error Handling
//
// Connection failures wrap ErrFailedToConnectToMongo together with the driver
// error. Use errors.Is() to detect them.
//
// # See Also
//
// Documentation for the official driver: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2.
package mongo
