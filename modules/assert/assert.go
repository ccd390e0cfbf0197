// Package assert the assertion module for the script tests.
package assert

import (
	"errors"
	"fmt"

	"github.com/grafana/sobek"
	"github.com/shiroyk/weburl/js"
	"github.com/shiroyk/weburl/modules"
)

func init() {
	modules.Register("assert", new(Assert))
}

// Assert the assert module, the failed assertion throws an Error.
//
//	assert(value, message)
//	assert.equal(actual, expected, message)
//	assert.sameValue(actual, expected, message)
//	assert.throws(fn, ErrorType, message)
//	assert.throwsNodeError(fn, ErrorType, code)
type Assert struct{}

func (a Assert) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
	ret := rt.ToValue(a.true).ToObject(rt)
	_ = ret.Set("true", a.true)
	_ = ret.Set("equal", a.equal)
	_ = ret.Set("sameValue", a.sameValue)
	_ = ret.Set("notSameValue", a.notSameValue)
	_ = ret.Set("throws", a.throws)
	_ = ret.Set("throwsNodeError", a.throwsNodeError)
	return ret, nil
}

func fail(rt *sobek.Runtime, call sobek.FunctionCall, i int, format string, args ...any) {
	var message string
	if msg := call.Argument(i); !sobek.IsUndefined(msg) {
		var rest []sobek.Value
		if len(call.Arguments) > i+1 {
			rest = call.Arguments[i+1:]
		}
		message = js.Format(rt, msg, rest...).String()
	} else {
		message = fmt.Sprintf(format, args...)
	}
	panic(rt.NewGoError(errors.New(message)))
}

func (Assert) true(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	if !call.Argument(0).ToBoolean() {
		fail(rt, call, 1, "Expected true but got %s", call.Argument(0))
	}
	return sobek.Undefined()
}

// equal uses the loose equality.
func (Assert) equal(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	a, b := call.Argument(0), call.Argument(1)
	if !a.Equals(b) {
		fail(rt, call, 2, "Expected equal but got %s  %s", a, b)
	}
	return sobek.Undefined()
}

// sameValue uses the SameValue algorithm.
func (Assert) sameValue(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	actual, expected := call.Argument(0), call.Argument(1)
	if !actual.SameAs(expected) {
		fail(rt, call, 2, "Expected SameValue(«%s», «%s») to be true", actual, expected)
	}
	return sobek.Undefined()
}

func (Assert) notSameValue(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	actual, unexpected := call.Argument(0), call.Argument(1)
	if actual.SameAs(unexpected) {
		fail(rt, call, 2, "Expected SameValue(«%s», «%s») to be false", actual, unexpected)
	}
	return sobek.Undefined()
}

// thrown calls the function and returns the thrown value.
func thrown(rt *sobek.Runtime, call sobek.FunctionCall) sobek.Value {
	fn, ok := sobek.AssertFunction(call.Argument(0))
	if !ok {
		panic(rt.NewTypeError("assert.throws requires a function"))
	}
	_, err := fn(sobek.Undefined())
	if err == nil {
		return nil
	}
	var ex *sobek.Exception
	if !errors.As(err, &ex) {
		js.Throw(rt, err)
	}
	return ex.Value()
}

func (Assert) throws(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	ctor := call.Argument(1).ToObject(rt)
	value := thrown(rt, call)
	if value == nil {
		fail(rt, call, 2, "Expected a %s to be thrown but no exception was thrown at all", ctor.Get("name"))
	}
	if !rt.InstanceOf(value, ctor) {
		fail(rt, call, 2, "Expected a %s but got %s", ctor.Get("name"), value)
	}
	return sobek.Undefined()
}

// throwsNodeError asserts the thrown error type and its code property.
func (Assert) throwsNodeError(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	ctor := call.Argument(1).ToObject(rt)
	code := call.Argument(2).String()
	value := thrown(rt, call)
	if value == nil {
		fail(rt, call, 3, "Expected a %s to be thrown but no exception was thrown at all", ctor.Get("name"))
	}
	if !rt.InstanceOf(value, ctor) {
		fail(rt, call, 3, "Expected a %s but got %s", ctor.Get("name"), value)
	}
	if got := value.ToObject(rt).Get("code"); got == nil || got.String() != code {
		fail(rt, call, 3, "Expected error code %s but got %v", code, got)
	}
	return sobek.Undefined()
}
