package modules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"text/template"

	"github.com/grafana/sobek"
	"github.com/grafana/sobek/parser"
	"github.com/shiroyk/weburl"
)

var (
	// ErrInvalidModule module is invalid
	ErrInvalidModule = errors.New("invalid module")
	// ErrIllegalModuleName module name is illegal
	ErrIllegalModuleName = errors.New("illegal module name")
	// ErrNotFoundModule not found module
	ErrNotFoundModule = errors.New("not found module")
)

type (
	// Loader the js module loader.
	Loader interface {
		// CompileModule compile module from source string (cjs/esm).
		CompileModule(name, source string) (sobek.CyclicModuleRecord, error)
		// ResolveModule resolve the module returns the sobek.ModuleRecord.
		ResolveModule(any, string) (sobek.ModuleRecord, error)
		// EnableRequire enable the global function require to the sobek.Runtime.
		EnableRequire(*sobek.Runtime) Loader
		// EnableImportModuleDynamically sobek runtime SetImportModuleDynamically
		EnableImportModuleDynamically(*sobek.Runtime) Loader
	}

	// Option the new Loader options.
	Option func(*loader)

	// FileLoader returns the contents of the referenced file.
	FileLoader func(specifier *weburl.URL, name string) ([]byte, error)
)

// WithBase the base directory of module loader.
func WithBase(base *weburl.URL) Option {
	return func(o *loader) { o.base = directory(base) }
}

// WithFileLoader the file loader of module loader.
func WithFileLoader(fl FileLoader) Option {
	return func(o *loader) { o.fileLoader = fl }
}

// WithSourceMapLoader the source map loader of module loader.
func WithSourceMapLoader(fn func(path string) ([]byte, error)) Option {
	return func(o *loader) { o.sourceLoader = parser.WithSourceMapLoader(fn) }
}

// NewLoader returns a new module resolver.
// The base defaults to the working directory and the fileLoader to DefaultFileLoader.
func NewLoader(opts ...Option) Loader {
	ml := &loader{
		modules: make(map[string]moduleCache),
		native:  make(map[string]sobek.CyclicModuleRecord),
		reverse: make(map[sobek.ModuleRecord]*weburl.URL),
	}

	for _, option := range opts {
		option(ml)
	}

	if ml.base == nil {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		ml.base = FileURL(wd + string(filepath.Separator))
	}
	if ml.fileLoader == nil {
		ml.fileLoader = DefaultFileLoader(http.DefaultClient.Do)
	}
	if ml.sourceLoader == nil {
		ml.sourceLoader = parser.WithDisableSourceMaps
	}
	return ml
}

// FileURL converts the file path to a file URL.
// A path that ends with a separator is a directory.
func FileURL(name string) *weburl.URL {
	abs, err := filepath.Abs(name)
	if err == nil {
		if strings.HasSuffix(name, string(filepath.Separator)) {
			abs += string(filepath.Separator)
		}
		name = abs
	}
	name = filepath.ToSlash(name)
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	u := weburl.MustParse("file:///")
	u.SetPathname(strings.ReplaceAll(name, "%", "%25"))
	return u
}

// FilePath converts the file URL to a file path.
func FilePath(u *weburl.URL) string {
	name := weburl.PercentDecode(u.Pathname())
	if runtime.GOOS == "windows" && len(name) > 2 && name[0] == '/' && name[2] == ':' {
		name = name[1:]
	}
	return filepath.FromSlash(name)
}

// DefaultFileLoader the default file loader.
// Supports file and HTTP scheme loading.
func DefaultFileLoader(fetch func(*http.Request) (*http.Response, error)) FileLoader {
	return func(specifier *weburl.URL, _ string) ([]byte, error) {
		switch specifier.Scheme() {
		case "http", "https":
			req, err := http.NewRequest(http.MethodGet, specifier.Href(), nil)
			if err != nil {
				return nil, err
			}
			res, err := fetch(req)
			if err != nil {
				return nil, err
			}
			defer res.Body.Close()
			if res.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("fetch %s: %s", specifier, res.Status)
			}
			return io.ReadAll(res.Body)
		case "file":
			return os.ReadFile(FilePath(specifier))
		default:
			return nil, fmt.Errorf("scheme not supported %s", specifier.Protocol())
		}
	}
}

type (
	// loader the Loader implement.
	// Allows loading and interop between ES module and CommonJS module.
	loader struct {
		sync.Mutex
		modules map[string]moduleCache
		native  map[string]sobek.CyclicModuleRecord
		reverse map[sobek.ModuleRecord]*weburl.URL

		fileLoader FileLoader

		base         *weburl.URL
		sourceLoader parser.Option
	}

	moduleCache struct {
		mod sobek.CyclicModuleRecord
		err error
	}
)

// EnableRequire enable the global function require to the sobek.Runtime.
func (ml *loader) EnableRequire(rt *sobek.Runtime) Loader {
	_ = rt.Set("require", ml.require)
	return ml
}

// EnableImportModuleDynamically sobek runtime SetImportModuleDynamically
func (ml *loader) EnableImportModuleDynamically(rt *sobek.Runtime) Loader {
	rt.SetImportModuleDynamically(func(scriptOrModule any, specifier sobek.Value, promiseCapability any) {
		module, err := ml.ResolveModule(scriptOrModule, specifier.String())
		rt.FinishLoadingImportModule(scriptOrModule, specifier, promiseCapability, module, err)
	})
	return ml
}

// require resolve the module instance.
func (ml *loader) require(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	name := call.Argument(0).String()
	mod, err := ml.ResolveModule(ml.currentModule(rt), name)
	if err != nil {
		panic(rt.NewGoError(err))
	}

	instance := rt.GetModuleInstance(mod)
	if instance == nil {
		if err = mod.Link(); err != nil {
			panic(rt.NewGoError(err))
		}
		cm, ok := mod.(sobek.CyclicModuleRecord)
		if !ok {
			panic(rt.NewGoError(ErrInvalidModule))
		}
		promise := rt.CyclicModuleRecordEvaluate(cm, ml.ResolveModule)
		if promise.State() == sobek.PromiseStateRejected {
			panic(promise.Result())
		}
		instance = rt.GetModuleInstance(mod)
	}

	switch mod.(type) {
	case *scriptModule:
		return instance.(*scriptInstance).exports
	case *nativeModule:
		return instance.(*nativeInstance).exports
	default:
		return rt.NamespaceObjectFor(mod)
	}
}

func (ml *loader) currentModule(rt *sobek.Runtime) sobek.ModuleRecord {
	var buf [2]sobek.StackFrame
	frames := rt.CaptureCallStack(2, buf[:0])
	if len(frames) < 2 {
		return nil
	}
	mod, _ := ml.ResolveModule(nil, frames[1].SrcName())
	return mod
}

// ResolveModule resolve the module returns the sobek.ModuleRecord.
// Registered modules take precedence, a bare name also matches the "node:" builtin.
func (ml *loader) ResolveModule(referencingScriptOrModule any, name string) (sobek.ModuleRecord, error) {
	if strings.HasPrefix(name, prefix) || strings.HasPrefix(name, nodePrefix) {
		if mod, ok := ml.nativeModule(name); ok {
			return mod, nil
		}
		return nil, fmt.Errorf("%w %s", ErrNotFoundModule, name)
	}
	if !isBasePath(name) && !strings.Contains(name, ":") {
		if mod, ok := ml.nativeModule(nodePrefix + name); ok {
			return mod, nil
		}
	}
	return ml.resolve(ml.reversePath(referencingScriptOrModule), name)
}

func (ml *loader) nativeModule(name string) (sobek.ModuleRecord, bool) {
	ml.Lock()
	defer ml.Unlock()
	if mod, ok := ml.native[name]; ok {
		return mod, true
	}
	if e, ok := Get(name); ok {
		mod := &nativeModule{mod: e}
		ml.native[name] = mod
		return mod, true
	}
	return nil, false
}

func (ml *loader) resolve(base *weburl.URL, specifier string) (sobek.ModuleRecord, error) {
	if specifier == "" {
		return nil, ErrIllegalModuleName
	}

	if isBasePath(specifier) {
		return ml.loadAsFileOrDirectory(base, specifier)
	}

	if u, err := weburl.Parse(specifier, nil); err == nil {
		return ml.loadModule(u)
	}

	return ml.loadNodeModules(base, specifier)
}

func (ml *loader) reversePath(referencingScriptOrModule any) *weburl.URL {
	mod, ok := referencingScriptOrModule.(sobek.ModuleRecord)
	if !ok {
		return ml.base
	}

	ml.Lock()
	p, ok := ml.reverse[mod]
	ml.Unlock()

	if !ok {
		return ml.base
	}
	return p
}

func (ml *loader) loadAsFileOrDirectory(dir *weburl.URL, name string) (sobek.ModuleRecord, error) {
	mod, err := ml.loadAsFile(dir, name)
	if err != nil {
		if isSyntaxError(err) {
			return nil, err
		}
		file, err := join(dir, name)
		if err != nil {
			return nil, err
		}
		return ml.loadAsDirectory(directory(file))
	}
	return mod, nil
}

func (ml *loader) loadAsFile(dir *weburl.URL, name string) (module sobek.ModuleRecord, err error) {
	for _, ext := range [...]string{"", ".js", ".json"} {
		var file *weburl.URL
		if file, err = join(dir, name+ext); err != nil {
			return
		}
		if module, err = ml.loadModule(file); err == nil || isSyntaxError(err) {
			return
		}
	}
	return
}

func (ml *loader) loadAsDirectory(dir *weburl.URL) (module sobek.ModuleRecord, err error) {
	index, _ := join(dir, "index.js")
	pkgFile, _ := join(dir, "package.json")
	buf, err := ml.fileLoader(pkgFile, "package.json")
	if err != nil {
		return ml.loadModule(index)
	}
	var pkg struct {
		Main string `json:"main"`
	}
	if err = json.Unmarshal(buf, &pkg); err != nil || len(pkg.Main) == 0 {
		return ml.loadModule(index)
	}

	if module, err = ml.loadAsFile(dir, pkg.Main); module != nil || isSyntaxError(err) {
		return
	}
	return ml.loadModule(index)
}

func (ml *loader) loadNodeModules(base *weburl.URL, name string) (sobek.ModuleRecord, error) {
	dir := base
	for {
		modules, err := join(dir, "node_modules/")
		if err != nil {
			return nil, err
		}
		mod, err := ml.loadAsFileOrDirectory(modules, name)
		if mod != nil || isSyntaxError(err) {
			return mod, err
		}

		parent, err := join(dir, "..")
		if err != nil || parent.Href() == dir.Href() {
			break
		}
		dir = parent
	}

	return nil, fmt.Errorf("%w %s at %s", ErrNotFoundModule, name, base)
}

func (ml *loader) loadModule(file *weburl.URL) (sobek.ModuleRecord, error) {
	specifier := file.Href()

	ml.Lock()
	cache, exists := ml.modules[specifier]
	ml.Unlock()
	if exists {
		return cache.mod, cache.err
	}

	buf, err := ml.fileLoader(file, path.Base(file.Pathname()))
	if err != nil {
		return nil, err
	}
	mod, err := ml.CompileModule(specifier, string(buf))

	ml.Lock()
	if err == nil {
		ml.reverse[mod], _ = join(file, ".")
	}
	ml.modules[specifier] = moduleCache{mod: mod, err: err}
	ml.Unlock()
	return mod, err
}

// CompileModule compile module from source string (cjs/esm).
func (ml *loader) CompileModule(name, source string) (sobek.CyclicModuleRecord, error) {
	if path.Ext(name) == ".json" {
		source = "module.exports = JSON.parse('" + template.JSEscapeString(source) + "')"
		return ml.compileCjsModule(name, source)
	}

	ast, err := sobek.Parse(name, source, parser.IsModule, ml.sourceLoader)
	if err != nil {
		return nil, err
	}

	isModule := len(ast.ExportEntries) > 0 || len(ast.ImportEntries) > 0 || ast.HasTLA
	if !isModule {
		return ml.compileCjsModule(name, source)
	}

	return sobek.ModuleFromAST(ast, ml.ResolveModule)
}

func (ml *loader) compileCjsModule(name, source string) (sobek.CyclicModuleRecord, error) {
	source = "(function(exports, require, module) {" + source + "\n})"

	ast, err := sobek.Parse(name, source, ml.sourceLoader)
	if err != nil {
		return nil, err
	}

	prg, err := sobek.CompileAST(ast, false)
	if err != nil {
		return nil, err
	}

	return &scriptModule{prg: prg}, nil
}

// join resolves the relative reference against the directory URL.
func join(dir *weburl.URL, ref string) (*weburl.URL, error) {
	return weburl.Parse(ref, dir)
}

// directory returns the URL with a trailing slash on the path.
func directory(u *weburl.URL) *weburl.URL {
	if u.HasOpaquePath() || strings.HasSuffix(u.Pathname(), "/") {
		return u
	}
	d := u.Clone()
	d.SetPathname(u.Pathname() + "/")
	return d
}

func isBasePath(path string) bool {
	result := path == "." || path == ".." ||
		strings.HasPrefix(path, "/") ||
		strings.HasPrefix(path, "./") ||
		strings.HasPrefix(path, "../")

	if runtime.GOOS == "windows" {
		result = result ||
			strings.HasPrefix(path, `.\`) ||
			strings.HasPrefix(path, `..\`) ||
			filepath.IsAbs(path)
	}

	return result
}

func isSyntaxError(err error) bool {
	var se *sobek.CompilerSyntaxError
	return errors.As(err, &se)
}
