package url

import (
	"reflect"

	"github.com/grafana/sobek"
	"github.com/shiroyk/weburl"
	"github.com/shiroyk/weburl/js"
	"github.com/shiroyk/weburl/js/types"
)

// URLSearchParams defines utility methods to work with the query string of a URL.
// The params of a URL are bound to it, every change updates the URL query.
// https://developer.mozilla.org/en-US/docs/Web/API/URLSearchParams
type URLSearchParams struct{}

func (URLSearchParams) Global() {}

func (u *URLSearchParams) prototype(rt *sobek.Runtime) *sobek.Object {
	p := rt.NewObject()
	_ = p.Set("append", u.append)
	_ = p.Set("delete", u.delete)
	_ = p.Set("forEach", u.forEach)
	_ = p.Set("get", u.get)
	_ = p.Set("getAll", u.getAll)
	_ = p.Set("has", u.has)
	_ = p.Set("set", u.set)
	_ = p.Set("sort", u.sort)
	_ = p.Set("toString", u.toString)
	_ = p.DefineAccessorProperty("size", rt.ToValue(u.size), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)

	iterProto := iteratorPrototype(rt)
	entries := rt.ToValue(u.iterator(iterProto, iterEntries))
	_ = p.Set("keys", u.iterator(iterProto, iterKeys))
	_ = p.Set("values", u.iterator(iterProto, iterValues))
	_ = p.Set("entries", entries)
	_ = p.SetSymbol(sobek.SymIterator, entries)
	_ = p.DefineDataPropertySymbol(sobek.SymToStringTag, rt.ToValue("URLSearchParams"), sobek.FLAG_FALSE, sobek.FLAG_TRUE, sobek.FLAG_FALSE)
	return p
}

// constructor accepts a query string, a sequence of [name, value] pairs,
// a record of names to values or another URLSearchParams.
func (u *URLSearchParams) constructor(call sobek.ConstructorCall, rt *sobek.Runtime) *sobek.Object {
	init := call.Argument(0)

	var params *weburl.SearchParams
	switch {
	case types.IsNullish(init):
		params = weburl.NewSearchParams("")
	case init.ExportType() == typeSearchParams:
		other := init.Export().(*searchParams).p
		params = weburl.NewSearchParams("")
		for _, pair := range other.Pairs() {
			params.Append(pair.Name, pair.Value)
		}
	case types.IsObject(init):
		params = fromObject(rt, init.ToObject(rt))
	default:
		params = weburl.NewSearchParams(init.String())
	}

	return newSearchParams(rt, params, call.This.Prototype())
}

func fromObject(rt *sobek.Runtime, obj *sobek.Object) *weburl.SearchParams {
	method := obj.GetSymbol(sobek.SymIterator)
	if types.IsNullish(method) {
		keys := obj.Keys()
		pairs := make([][]string, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, []string{key, obj.Get(key).String()})
		}
		params, _ := weburl.SearchParamsFromPairs(pairs)
		return params
	}
	if _, ok := sobek.AssertFunction(method); !ok {
		panic(js.TypeError(rt, "ERR_ARG_NOT_ITERABLE", "Query pairs must be iterable"))
	}

	var pairs [][]string
	rt.ForOf(obj, func(item sobek.Value) bool {
		if !types.IsObject(item) {
			pairs = append(pairs, nil)
			return true
		}
		var pair []string
		rt.ForOf(item, func(v sobek.Value) bool {
			pair = append(pair, v.String())
			return true
		})
		pairs = append(pairs, pair)
		return true
	})
	params, err := weburl.SearchParamsFromPairs(pairs)
	if err != nil {
		panic(typeError(rt, weburl.ErrInvalidTuple, "Each query pair must be an iterable [name, value] tuple"))
	}
	return params
}

func (u *URLSearchParams) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
	proto := u.prototype(rt)
	ctor := rt.ToValue(u.constructor).(*sobek.Object)
	_ = proto.DefineDataProperty("constructor", ctor, sobek.FLAG_TRUE, sobek.FLAG_TRUE, sobek.FLAG_FALSE)
	_ = ctor.Set("prototype", proto)
	return ctor, nil
}

var typeSearchParams = reflect.TypeOf((*searchParams)(nil))

func toSearchParams(rt *sobek.Runtime, value sobek.Value) *weburl.SearchParams {
	if value.ExportType() == typeSearchParams {
		return value.Export().(*searchParams).p
	}
	panic(typeError(rt, weburl.ErrInvalidReceiver, `Value of "this" must be of type URLSearchParams`))
}

type searchParams struct{ p *weburl.SearchParams }

func newSearchParams(rt *sobek.Runtime, params *weburl.SearchParams, proto *sobek.Object) *sobek.Object {
	obj := rt.ToValue(&searchParams{params}).(*sobek.Object)
	_ = obj.SetPrototype(proto)
	return obj
}

func missingArgs(rt *sobek.Runtime, call sobek.FunctionCall, names ...string) {
	if len(call.Arguments) >= len(names) {
		return
	}
	if len(names) == 1 {
		panic(typeError(rt, weburl.ErrMissingArgs, `The "%s" argument must be specified`, names[0]))
	}
	panic(typeError(rt, weburl.ErrMissingArgs, `The "%s" and "%s" arguments must be specified`, names[0], names[1]))
}

// optional returns the argument as a value filter, undefined means no filter.
func optional(call sobek.FunctionCall, i int) []string {
	if v := call.Argument(i); !sobek.IsUndefined(v) {
		return []string{v.String()}
	}
	return nil
}

func (*URLSearchParams) append(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toSearchParams(rt, call.This)
	missingArgs(rt, call, "name", "value")
	this.Append(call.Argument(0).String(), call.Argument(1).String())
	return sobek.Undefined()
}

func (*URLSearchParams) delete(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toSearchParams(rt, call.This)
	missingArgs(rt, call, "name")
	this.Delete(call.Argument(0).String(), optional(call, 1)...)
	return sobek.Undefined()
}

// forEach calls the callback with (value, name, params) for each pair,
// the pairs changed by the callback are observed.
func (*URLSearchParams) forEach(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toSearchParams(rt, call.This)
	callback, ok := sobek.AssertFunction(call.Argument(0))
	if !ok {
		panic(typeError(rt, weburl.ErrInvalidCallable,
			`The "callback" argument must be of type function. Received %s`, call.Argument(0).String()))
	}

	thisArg := call.Argument(1)
	for i := 0; ; i++ {
		pair, ok := this.At(i)
		if !ok {
			break
		}
		if _, err := callback(thisArg, rt.ToValue(pair.Value), rt.ToValue(pair.Name), call.This); err != nil {
			js.Throw(rt, err)
		}
	}
	return sobek.Undefined()
}

func (*URLSearchParams) get(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toSearchParams(rt, call.This)
	missingArgs(rt, call, "name")
	if v, ok := this.Get(call.Argument(0).String()); ok {
		return rt.ToValue(v)
	}
	return sobek.Null()
}

func (*URLSearchParams) getAll(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toSearchParams(rt, call.This)
	missingArgs(rt, call, "name")
	values := this.GetAll(call.Argument(0).String())
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = v
	}
	return rt.NewArray(items...)
}

func (*URLSearchParams) has(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toSearchParams(rt, call.This)
	missingArgs(rt, call, "name")
	return rt.ToValue(this.Has(call.Argument(0).String(), optional(call, 1)...))
}

func (*URLSearchParams) set(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toSearchParams(rt, call.This)
	missingArgs(rt, call, "name", "value")
	this.Set(call.Argument(0).String(), call.Argument(1).String())
	return sobek.Undefined()
}

func (*URLSearchParams) sort(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toSearchParams(rt, call.This).Sort()
	return sobek.Undefined()
}

func (*URLSearchParams) toString(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toSearchParams(rt, call.This).String())
}

func (*URLSearchParams) size(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toSearchParams(rt, call.This).Size())
}

func (*URLSearchParams) iterator(proto *sobek.Object, kind iterKind) func(sobek.FunctionCall, *sobek.Runtime) sobek.Value {
	return func(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
		this := toSearchParams(rt, call.This)
		obj := rt.ToValue(&paramsIterator{params: this, kind: kind}).(*sobek.Object)
		_ = obj.SetPrototype(proto)
		return obj
	}
}
