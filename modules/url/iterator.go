package url

import (
	"reflect"

	"github.com/grafana/sobek"
	"github.com/shiroyk/weburl"
)

type iterKind int

const (
	iterEntries iterKind = iota
	iterKeys
	iterValues
)

// paramsIterator walks the pairs by index, so pairs appended
// during the iteration are visited.
type paramsIterator struct {
	params *weburl.SearchParams
	index  int
	kind   iterKind
}

var typeIterator = reflect.TypeOf((*paramsIterator)(nil))

// iteratorPrototype the prototype shared by keys(), values() and entries().
func iteratorPrototype(rt *sobek.Runtime) *sobek.Object {
	p := rt.NewObject()
	_ = p.Set("next", next)
	_ = p.SetSymbol(sobek.SymIterator, func(call sobek.FunctionCall) sobek.Value { return call.This })
	_ = p.DefineDataPropertySymbol(sobek.SymToStringTag, rt.ToValue("URLSearchParams Iterator"), sobek.FLAG_FALSE, sobek.FLAG_TRUE, sobek.FLAG_FALSE)
	return p
}

func next(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	if call.This.ExportType() != typeIterator {
		panic(typeError(rt, weburl.ErrInvalidReceiver, `Value of "this" must be of type URLSearchParamsIterator`))
	}
	it := call.This.Export().(*paramsIterator)

	ret := rt.NewObject()
	pair, ok := it.params.At(it.index)
	if !ok {
		_ = ret.Set("value", sobek.Undefined())
		_ = ret.Set("done", true)
		return ret
	}
	it.index++

	var value sobek.Value
	switch it.kind {
	case iterKeys:
		value = rt.ToValue(pair.Name)
	case iterValues:
		value = rt.ToValue(pair.Value)
	default:
		value = rt.NewArray(pair.Name, pair.Value)
	}
	_ = ret.Set("value", value)
	_ = ret.Set("done", false)
	return ret
}
