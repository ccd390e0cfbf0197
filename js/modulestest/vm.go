// Package modulestest the module test vm
package modulestest

import (
	"context"
	"os"
	"testing"

	"github.com/grafana/sobek"
	"github.com/shiroyk/weburl/js"
	"github.com/shiroyk/weburl/modules/assert"
)

// VM the test VM, assert is set on the global object.
type VM struct {
	js.VM
	t *testing.T
}

// New returns a test VM instance
func New(t *testing.T, opts ...js.Option) *VM {
	t.Helper()
	opts = append([]js.Option{js.WithInitial(func(rt *sobek.Runtime) {
		v, _ := new(assert.Assert).Instantiate(rt)
		_ = rt.Set("assert", v)
	})}, opts...)
	return &VM{js.NewVM(opts...), t}
}

// RunModule compiles the source as a module and runs it.
func (vm *VM) RunModule(ctx context.Context, source string, args ...any) (sobek.Value, error) {
	vm.t.Helper()
	module, err := js.CompileModule(vm.t.Name()+".js", source)
	if err != nil {
		return nil, err
	}
	return vm.VM.RunModule(ctx, module, args...)
}

// RunFile runs the script file.
func (vm *VM) RunFile(ctx context.Context, name string) (sobek.Value, error) {
	vm.t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	program, err := sobek.Compile(name, string(data), false)
	if err != nil {
		return nil, err
	}
	return vm.RunProgram(ctx, program)
}
