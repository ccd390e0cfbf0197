package js

import (
	"context"
	"errors"
	"fmt"

	"github.com/grafana/sobek"
)

// Throw js exception
func Throw(rt *sobek.Runtime, err error) {
	var ex *sobek.Exception
	if errors.As(err, &ex) { //nolint:errorlint
		panic(ex)
	}
	panic(rt.NewGoError(err))
}

// TypeError returns a TypeError with the Node.js style error code.
//
//	panic(js.TypeError(rt, "ERR_MISSING_ARGS", `The "name" argument must be specified`))
func TypeError(rt *sobek.Runtime, code, format string, args ...any) *sobek.Object {
	e := rt.NewTypeError(append([]any{format}, args...)...)
	_ = e.DefineDataProperty("code", rt.ToValue(code), sobek.FLAG_TRUE, sobek.FLAG_TRUE, sobek.FLAG_FALSE)
	return e
}

// Unwrap the sobek.Value to the raw value
func Unwrap(value sobek.Value) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.Export().(type) {
	default:
		return v, nil
	case sobek.ArrayBuffer:
		return v.Bytes(), nil
	case *sobek.Promise:
		switch v.State() {
		case sobek.PromiseStateRejected:
			return nil, errors.New(v.Result().String())
		case sobek.PromiseStateFulfilled:
			return v.Result().Export(), nil
		default:
			return nil, errors.New("unexpected promise pending state")
		}
	}
}

// ModuleInstance return the sobek.ModuleInstance.
func ModuleInstance(rt *sobek.Runtime, resolve sobek.HostResolveImportedModuleFunc, module sobek.CyclicModuleRecord) (sobek.ModuleInstance, error) {
	instance := rt.GetModuleInstance(module)
	if instance != nil {
		return instance, nil
	}
	if err := module.Link(); err != nil {
		return nil, err
	}
	promise := rt.CyclicModuleRecordEvaluate(module, resolve)
	if promise.State() == sobek.PromiseStateRejected {
		result := promise.Result()
		if err, ok := result.Export().(error); ok {
			return nil, err
		}
		return nil, fmt.Errorf("module evaluate: %s", result)
	}
	return rt.GetModuleInstance(module), nil
}

// ModuleCallable return the sobek.CyclicModuleRecord default export as sobek.Callable.
func ModuleCallable(rt *sobek.Runtime, resolve sobek.HostResolveImportedModuleFunc, module sobek.CyclicModuleRecord) (sobek.Callable, error) {
	instance, err := ModuleInstance(rt, resolve, module)
	if err != nil {
		return nil, err
	}
	value := instance.GetBindingValue("default")
	call, ok := sobek.AssertFunction(value)
	if !ok {
		return nil, errors.New("module default export is not a function")
	}
	return call, nil
}

// Context returns the current context of the sobek.Runtime
func Context(rt *sobek.Runtime) context.Context { return self(rt).ctx }
