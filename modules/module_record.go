package modules

import (
	"sync"

	"github.com/grafana/sobek"
)

// scriptModule a CommonJS module, the program is wrapped as
// (function(exports, require, module) {...}).
type scriptModule struct {
	prg     *sobek.Program
	names   []string
	pending []func([]string)
}

func (sm *scriptModule) Link() error { return nil }

func (sm *scriptModule) InitializeEnvironment() error { return nil }

func (sm *scriptModule) RequestedModules() []string { return nil }

func (sm *scriptModule) Evaluate(*sobek.Runtime) *sobek.Promise { return nil }

func (sm *scriptModule) Instantiate(*sobek.Runtime) (sobek.CyclicModuleInstance, error) {
	return &scriptInstance{module: sm}, nil
}

// GetExportedNames the names are only known after the module executed,
// callbacks registered before are deferred.
func (sm *scriptModule) GetExportedNames(callback func([]string), _ ...sobek.ModuleRecord) bool {
	if sm.names == nil {
		sm.pending = append(sm.pending, callback)
		return false
	}
	callback(sm.names)
	return true
}

func (sm *scriptModule) ResolveExport(name string, _ ...sobek.ResolveSetElement) (*sobek.ResolvedBinding, bool) {
	return &sobek.ResolvedBinding{Module: sm, BindingName: name}, false
}

func (sm *scriptModule) exported(names []string) {
	if names == nil {
		names = []string{}
	}
	sm.names = names
	for _, callback := range sm.pending {
		callback(names)
	}
	sm.pending = nil
}

type scriptInstance struct {
	module  *scriptModule
	exports *sobek.Object
}

func (si *scriptInstance) HasTLA() bool { return false }

func (si *scriptInstance) GetBindingValue(name string) sobek.Value {
	if name != "default" {
		return si.exports.Get(name)
	}
	if d := si.exports.Get("default"); d != nil {
		return d
	}
	return si.exports
}

func (si *scriptInstance) ExecuteModule(rt *sobek.Runtime, _, _ func(any) error) (sobek.CyclicModuleInstance, error) {
	wrapper, err := rt.RunProgram(si.module.prg)
	if err != nil {
		return nil, err
	}

	module := rt.NewObject()
	exports := rt.NewObject()
	_ = module.Set("exports", exports)
	if call, ok := sobek.AssertFunction(wrapper); ok {
		if _, err = call(exports, exports, rt.Get("require"), module); err != nil {
			return nil, err
		}
	}

	value := module.Get("exports")
	if value == nil || sobek.IsNull(value) || sobek.IsUndefined(value) {
		return nil, ErrInvalidModule
	}
	si.exports = value.ToObject(rt)
	if si.module.names == nil {
		si.module.exported(si.exports.GetOwnPropertyNames())
	}
	return si, nil
}

// nativeModule a Module implemented in Go.
type nativeModule struct {
	mod   Module
	names []string
	once  sync.Once
}

func (nm *nativeModule) Link() error { return nil }

func (nm *nativeModule) InitializeEnvironment() error { return nil }

func (nm *nativeModule) RequestedModules() []string { return nil }

func (nm *nativeModule) Evaluate(*sobek.Runtime) *sobek.Promise { return nil }

func (nm *nativeModule) Instantiate(rt *sobek.Runtime) (sobek.CyclicModuleInstance, error) {
	value, err := nm.mod.Instantiate(rt)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, ErrInvalidModule
	}
	exports := value.ToObject(rt)
	nm.once.Do(func() { nm.names = exports.GetOwnPropertyNames() })
	return &nativeInstance{exports}, nil
}

func (nm *nativeModule) GetExportedNames(callback func([]string), _ ...sobek.ModuleRecord) bool {
	callback(nm.names)
	return true
}

func (nm *nativeModule) ResolveExport(name string, _ ...sobek.ResolveSetElement) (*sobek.ResolvedBinding, bool) {
	return &sobek.ResolvedBinding{Module: nm, BindingName: name}, false
}

type nativeInstance struct{ exports *sobek.Object }

func (ni *nativeInstance) HasTLA() bool { return false }

func (ni *nativeInstance) GetBindingValue(name string) sobek.Value {
	if name == "default" {
		return ni.exports
	}
	return ni.exports.Get(name)
}

func (ni *nativeInstance) ExecuteModule(*sobek.Runtime, func(any) error, func(any) error) (sobek.CyclicModuleInstance, error) {
	return ni, nil
}
