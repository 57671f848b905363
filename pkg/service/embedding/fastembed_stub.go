//go:build !fastembed

package embedding

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-app/memora/pkg/domain/interfaces"
)

// NewFastEmbed reports that local embedding support was not compiled in
func NewFastEmbed(cacheDir string) (interfaces.Embedder, error) {
	return nil, goerr.New("binary built without fastembed support (rebuild with -tags fastembed)")
}
