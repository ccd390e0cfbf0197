// Package url the node:url module, URL and URLSearchParams globals
// backed by the WHATWG URL parser.
package url

import (
	"reflect"

	"github.com/grafana/sobek"
	"github.com/shiroyk/weburl"
	"github.com/shiroyk/weburl/js"
	"github.com/shiroyk/weburl/modules"
)

func init() {
	modules.Register("node:url", new(Module))
	modules.Register("URL", new(URL))
	modules.Register("URLSearchParams", new(URLSearchParams))
}

// Module the node:url module.
type Module struct{}

func (Module) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
	ret := rt.NewObject()
	_ = ret.Set("URL", global(rt, "URL", new(URL)))
	_ = ret.Set("URLSearchParams", global(rt, "URLSearchParams", new(URLSearchParams)))
	_ = ret.Set("domainToASCII", domainToASCII)
	_ = ret.Set("domainToUnicode", domainToUnicode)
	return ret, nil
}

// global returns the constructor on the global object, instantiates it when absent.
func global(rt *sobek.Runtime, name string, mod modules.Module) sobek.Value {
	if v := rt.Get(name); v != nil && !sobek.IsUndefined(v) {
		return v
	}
	v, _ := mod.Instantiate(rt)
	return v
}

// prototypeOf returns the prototype of the global constructor.
func prototypeOf(rt *sobek.Runtime, name string) *sobek.Object {
	if ctor, ok := rt.Get(name).(*sobek.Object); ok {
		if proto, ok := ctor.Get("prototype").(*sobek.Object); ok {
			return proto
		}
	}
	panic(rt.NewTypeError("%s is not defined", name))
}

func domainToASCII(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	if len(call.Arguments) == 0 {
		panic(typeError(rt, weburl.ErrMissingArgs, `The "domain" argument must be specified`))
	}
	return rt.ToValue(weburl.DomainToASCII(call.Argument(0).String()))
}

func domainToUnicode(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	if len(call.Arguments) == 0 {
		panic(typeError(rt, weburl.ErrMissingArgs, `The "domain" argument must be specified`))
	}
	return rt.ToValue(weburl.DomainToUnicode(call.Argument(0).String()))
}

// URL is a component of the URL standard, which defines what constitutes
// a valid Uniform Resource Locator and the API that accesses and manipulates URLs.
// https://developer.mozilla.org/en-US/docs/Web/API/URL_API
type URL struct{}

func (URL) Global() {}

func (u *URL) prototype(rt *sobek.Runtime) *sobek.Object {
	p := rt.NewObject()

	accessor := func(name string, getter, setter func(sobek.FunctionCall, *sobek.Runtime) sobek.Value) {
		var set sobek.Value
		if setter != nil {
			set = rt.ToValue(setter)
		}
		_ = p.DefineAccessorProperty(name, rt.ToValue(getter), set, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	}
	accessor("hash", u.hash, u.setHash)
	accessor("host", u.host, u.setHost)
	accessor("hostname", u.hostname, u.setHostname)
	accessor("href", u.href, u.setHref)
	accessor("origin", u.origin, u.setOrigin)
	accessor("password", u.password, u.setPassword)
	accessor("pathname", u.pathname, u.setPathname)
	accessor("port", u.port, u.setPort)
	accessor("protocol", u.protocol, u.setProtocol)
	accessor("search", u.search, u.setSearch)
	accessor("searchParams", u.searchParams, nil)
	accessor("username", u.username, u.setUsername)

	_ = p.Set("toString", u.href)
	_ = p.Set("toJSON", u.href)
	_ = p.DefineDataPropertySymbol(sobek.SymToStringTag, rt.ToValue("URL"), sobek.FLAG_FALSE, sobek.FLAG_TRUE, sobek.FLAG_FALSE)
	return p
}

func (u *URL) constructor(call sobek.ConstructorCall, rt *sobek.Runtime) *sobek.Object {
	if len(call.Arguments) == 0 {
		panic(typeError(rt, weburl.ErrMissingArgs, `The "url" argument must be specified`))
	}
	parsed, ok := parse(call.Argument(0), call.Argument(1))
	if !ok {
		panic(invalidURL(rt, call.Argument(0), call.Argument(1)))
	}
	return newURL(rt, parsed, call.This.Prototype())
}

func (u *URL) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
	proto := u.prototype(rt)
	ctor := rt.ToValue(u.constructor).(*sobek.Object)
	_ = proto.DefineDataProperty("constructor", ctor, sobek.FLAG_TRUE, sobek.FLAG_TRUE, sobek.FLAG_FALSE)
	_ = ctor.Set("prototype", proto)
	_ = ctor.Set("canParse", u.canParse)
	_ = ctor.Set("parse", u.parse)
	return ctor, nil
}

var typeURL = reflect.TypeOf((*url)(nil))

func toURL(rt *sobek.Runtime, value sobek.Value) *url {
	if value.ExportType() == typeURL {
		return value.Export().(*url)
	}
	panic(typeError(rt, weburl.ErrInvalidReceiver, `Value of "this" must be of type URL`))
}

type url struct {
	u      *weburl.URL
	params *sobek.Object
}

func newURL(rt *sobek.Runtime, parsed *weburl.URL, proto *sobek.Object) *sobek.Object {
	obj := rt.ToValue(&url{u: parsed}).(*sobek.Object)
	_ = obj.SetPrototype(proto)
	return obj
}

// parse the input against the optional base, a given base must be a valid URL.
func parse(input, base sobek.Value) (*weburl.URL, bool) {
	var b *weburl.URL
	if !sobek.IsUndefined(base) {
		var err error
		if b, err = weburl.Parse(base.String(), nil); err != nil {
			return nil, false
		}
	}
	u, err := weburl.Parse(input.String(), b)
	return u, err == nil
}

func invalidURL(rt *sobek.Runtime, input, base sobek.Value) *sobek.Object {
	e := typeError(rt, weburl.ErrInvalidURL, "Invalid URL")
	_ = e.Set("input", input.String())
	if !sobek.IsUndefined(base) {
		_ = e.Set("base", base.String())
	}
	return e
}

func (*URL) hash(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Hash())
}

func (*URL) setHash(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetHash(call.Argument(0).String())
	return sobek.Undefined()
}

func (*URL) host(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Host())
}

func (*URL) setHost(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetHost(call.Argument(0).String())
	return sobek.Undefined()
}

func (*URL) hostname(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Hostname())
}

func (*URL) setHostname(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetHostname(call.Argument(0).String())
	return sobek.Undefined()
}

func (*URL) href(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Href())
}

func (*URL) setHref(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toURL(rt, call.This)
	if err := this.u.SetHref(call.Argument(0).String()); err != nil {
		panic(invalidURL(rt, call.Argument(0), sobek.Undefined()))
	}
	return sobek.Undefined()
}

func (*URL) origin(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Origin())
}

func (*URL) setOrigin(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This)
	panic(typeError(rt, weburl.ErrImmutableProperty, "origin is a read-only property"))
}

func (*URL) password(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Password())
}

func (*URL) setPassword(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetPassword(call.Argument(0).String())
	return sobek.Undefined()
}

func (*URL) pathname(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Pathname())
}

func (*URL) setPathname(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetPathname(call.Argument(0).String())
	return sobek.Undefined()
}

func (*URL) port(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Port())
}

func (*URL) setPort(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetPort(call.Argument(0).String())
	return sobek.Undefined()
}

func (*URL) protocol(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Protocol())
}

func (*URL) setProtocol(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetProtocol(call.Argument(0).String())
	return sobek.Undefined()
}

func (*URL) username(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Username())
}

func (*URL) setUsername(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetUsername(call.Argument(0).String())
	return sobek.Undefined()
}

func (*URL) search(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toURL(rt, call.This).u.Search())
}

func (*URL) setSearch(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toURL(rt, call.This).u.SetSearch(call.Argument(0).String())
	return sobek.Undefined()
}

// searchParams returns the same URLSearchParams object on every access.
func (*URL) searchParams(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	this := toURL(rt, call.This)
	if this.params == nil {
		this.params = newSearchParams(rt, this.u.SearchParams(), prototypeOf(rt, "URLSearchParams"))
	}
	return this.params
}

// parse returns null instead of throwing.
func (*URL) parse(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	if len(call.Arguments) == 0 {
		panic(typeError(rt, weburl.ErrMissingArgs, `The "url" argument must be specified`))
	}
	parsed, ok := parse(call.Argument(0), call.Argument(1))
	if !ok {
		return sobek.Null()
	}
	proto := prototypeOf(rt, "URL")
	if ctor, ok := call.This.(*sobek.Object); ok {
		if p, ok := ctor.Get("prototype").(*sobek.Object); ok {
			proto = p
		}
	}
	return newURL(rt, parsed, proto)
}

func (*URL) canParse(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	if len(call.Arguments) == 0 {
		panic(typeError(rt, weburl.ErrMissingArgs, `The "url" argument must be specified`))
	}
	_, ok := parse(call.Argument(0), call.Argument(1))
	return rt.ToValue(ok)
}

// codes the Node error code of the weburl errors.
var codes = map[error]string{
	weburl.ErrInvalidURL:        "ERR_INVALID_URL",
	weburl.ErrInvalidTuple:      "ERR_INVALID_TUPLE",
	weburl.ErrMissingArgs:       "ERR_MISSING_ARGS",
	weburl.ErrInvalidCallable:   "ERR_INVALID_ARG_TYPE",
	weburl.ErrInvalidReceiver:   "ERR_INVALID_THIS",
	weburl.ErrImmutableProperty: "ERR_IMMUTABLE_PROPERTY",
}

// typeError returns the TypeError with the Node error code of err.
func typeError(rt *sobek.Runtime, err error, format string, args ...any) *sobek.Object {
	return js.TypeError(rt, codes[err], format, args...)
}
