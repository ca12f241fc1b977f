package jsonforms

import (
	internalLoader "github.com/radifan-bfi/jsonforms/internal/loader"
	"github.com/radifan-bfi/jsonforms/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderConfig(options...)
	return internalLoader.New(cfg)
}
