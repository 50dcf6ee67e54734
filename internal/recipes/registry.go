package recipes

import (
	"sync"

	"github.com/roach88/graphsmith/internal/workflow"
)

// All returns a fresh descriptor for every recipe.
func All() []*workflow.Descriptor {
	return []*workflow.Descriptor{
		SDXLFaceDetailRecipe(),
		SDXLAuthenticRecipe(),
		QwenTxt2ImgRecipe(),
		QwenEditRecipe(),
		QwenLightningRecipe(),
		FluxDepthRecipe(),
	}
}

var defaultRegistry = sync.OnceValue(func() *workflow.Registry {
	return workflow.NewRegistry().MustRegister(All()...)
})

// Registry returns the process-wide registry of built-in recipes.
func Registry() *workflow.Registry {
	return defaultRegistry()
}
