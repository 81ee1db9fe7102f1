package orderflow

import "github.com/foodworks/orderflow/core"

// Type aliases so SDK consumers can stay on the root package for the
// common types.
type (
	MenuItem       = core.MenuItem
	CartLine       = core.CartLine
	PaymentDetails = core.PaymentDetails
	Order          = core.Order
	OrderItem      = core.OrderItem
	Logger         = core.Logger
	Config         = core.Config
)

// Re-exported configuration options.
var (
	WithName           = core.WithName
	WithBaseURL        = core.WithBaseURL
	WithRequestTimeout = core.WithRequestTimeout
	WithRedisURL       = core.WithRedisURL
	WithMenuCacheTTL   = core.WithMenuCacheTTL
	WithCompensation   = core.WithCompensation
	WithTelemetry      = core.WithTelemetry
	WithLogLevel       = core.WithLogLevel
	WithConfigFile     = core.WithConfigFile
)

// UserMessage converts any orderflow error into the single
// human-readable message an interface should show for the failed
// operation.
func UserMessage(err error) string {
	return core.UserMessage(err)
}
