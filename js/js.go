package js

import (
	"context"

	"github.com/grafana/sobek"
)

// RunModule runs the sobek.CyclicModuleRecord on a new VM.
//
// example:
//
//	module, err := js.CompileModule("host", "export default (s) => new URL(s).host")
//	if err != nil {
//		panic(err)
//	}
//	value, err := js.RunModule(context.Background(), module, "https://example.com:8080/")
//	if err != nil {
//		panic(err)
//	}
//	fmt.Println(value.Export()) // example.com:8080
func RunModule(ctx context.Context, module sobek.CyclicModuleRecord, args ...any) (sobek.Value, error) {
	return NewVM().RunModule(ctx, module, args...)
}

// RunString executes the given string on a new VM.
//
// example:
//
//	value, err := js.RunString(context.Background(), `new URL("/a/../b", "http://h").href`)
//	if err != nil {
//		panic(err)
//	}
//	fmt.Println(value.Export()) // http://h/b
func RunString(ctx context.Context, str string) (sobek.Value, error) {
	return NewVM().RunString(ctx, str)
}

// RunProgram executes the given sobek.Program on a new VM.
func RunProgram(ctx context.Context, program *sobek.Program) (sobek.Value, error) {
	return NewVM().RunProgram(ctx, program)
}

// Run executes the given function on a new VM.
//
// example:
//
//	err := js.Run(context.Background(), func(rt *sobek.Runtime) error {
//		_, err := rt.RunString(`console.log(new URLSearchParams({a: 1}).toString())`)
//		return err
//	})
func Run(ctx context.Context, fn func(*sobek.Runtime) error) error {
	vm := NewVM()
	return vm.Run(ctx, func() error { return fn(vm.Runtime()) })
}

// CompileModule compile module from source string (cjs/esm).
func CompileModule(name, source string) (sobek.CyclicModuleRecord, error) {
	return Loader().CompileModule(name, source)
}
