// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X github.com/ryanznie/options-order-book/internal/version.Version=0.3.0 \
//	                   -X github.com/ryanznie/options-order-book/internal/version.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/brackets
package version

var (
	Version = "dev"
	Commit  = "unknown"
)

// String returns "<version> (<commit>)".
func String() string {
	return Version + " (" + Commit + ")"
}
