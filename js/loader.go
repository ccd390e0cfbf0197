package js

import (
	"sync/atomic"

	"github.com/shiroyk/weburl/modules"
)

type wrap struct{ modules.Loader }

var loader atomic.Value

func init() {
	SetLoader(modules.NewLoader())
}

// Loader get the default modules.Loader
func Loader() modules.Loader { return loader.Load().(wrap).Loader }

// SetLoader set the default modules.Loader used by NewVM
func SetLoader(ml modules.Loader) { loader.Store(wrap{ml}) }
