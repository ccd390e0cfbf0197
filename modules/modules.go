// Package modules the JavaScript module registry and loader.
package modules

import (
	"maps"
	"strings"
	"sync"

	"github.com/grafana/sobek"
)

// Module is the interface that must be implemented by JavaScript modules.
// It defines how a module is instantiated and made available to the JavaScript runtime.
//
// Example implementation:
//
//	func init() {
//		modules.Register("node:querystring", new(QueryString))
//	}
//
//	type QueryString struct{}
//
//	func (QueryString) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
//		ret := rt.NewObject()
//		_ = ret.Set("escape", func(s string) string {
//			return weburl.PercentEncode(s, weburl.ComponentSet)
//		})
//		return ret, nil
//	}
type Module interface {
	Instantiate(*sobek.Runtime) (sobek.Value, error)
}

// Global implements the interface will load into global when the VM create.
type Global interface {
	Module
	Global() // mark as global module
}

// Register registers a Module that can be imported in JavaScript code by the given name.
//
//   - a Global module is set on the global object under its name when the VM is created;
//   - a name with the "node:" scheme is a builtin, it can be required with or without the scheme;
//   - otherwise the module is prefixed with "weburl/" and must be explicitly imported.
func Register(name string, mod Module) {
	_, global := mod.(Global)
	if !global && !strings.HasPrefix(name, nodePrefix) {
		name = prefix + name
	}
	registry.Lock()
	registry.native[name] = mod
	registry.Unlock()
}

// Get the module
func Get(name string) (Module, bool) {
	registry.RLock()
	defer registry.RUnlock()
	module, ok := registry.native[name]
	return module, ok
}

// Remove the modules
func Remove(names ...string) {
	registry.Lock()
	for _, name := range names {
		delete(registry.native, name)
	}
	registry.Unlock()
}

// All get all module
func All() map[string]Module {
	registry.RLock()
	defer registry.RUnlock()
	return maps.Clone(registry.native)
}

const (
	prefix     = "weburl/"
	nodePrefix = "node:"
)

var registry = struct {
	sync.RWMutex
	native map[string]Module
}{
	native: make(map[string]Module),
}
