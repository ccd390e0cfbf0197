package js

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/grafana/sobek"
	"github.com/shiroyk/weburl/modules"
)

// VM the js runtime.
// An instance of VM can only be used by a single goroutine at a time.
type VM interface {
	// Run the function with the context, the runtime is interrupted when the context is done.
	Run(context.Context, func() error) error
	// RunModule run the module, if the default export is a function it is called with args.
	RunModule(ctx context.Context, module sobek.CyclicModuleRecord, args ...any) (sobek.Value, error)
	// RunString executes the given string
	RunString(context.Context, string) (sobek.Value, error)
	// RunProgram executes the given sobek.Program
	RunProgram(context.Context, *sobek.Program) (sobek.Value, error)
	// Runtime the sobek.Runtime
	Runtime() *sobek.Runtime
}

// Option the VM option
type Option func(*vm)

// WithInitial calls the function after the runtime initialized.
func WithInitial(fn func(*sobek.Runtime)) Option {
	return func(o *vm) { o.initial = append(o.initial, fn) }
}

// WithLoader the modules.Loader of the VM, defaults to Loader().
func WithLoader(l modules.Loader) Option {
	return func(o *vm) { o.loader = l }
}

// WithLogger the default logger of the console.
func WithLogger(logger *slog.Logger) Option {
	return func(o *vm) { o.logger = logger }
}

// NewVM creates a new JavaScript VM.
// Enables require, dynamic import, console and loads the global modules.
func NewVM(opts ...Option) VM {
	rt := sobek.New()
	rt.SetFieldNameMapper(sobek.TagFieldNameMapper("js", true))

	v := &vm{rt: rt, ctx: context.Background()}
	for _, opt := range opts {
		opt(v)
	}
	if v.loader == nil {
		v.loader = Loader()
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}

	_ = rt.GlobalObject().DefineDataPropertySymbol(symbolVM, rt.ToValue(v),
		sobek.FLAG_FALSE, sobek.FLAG_FALSE, sobek.FLAG_FALSE)

	v.loader.EnableRequire(rt).EnableImportModuleDynamically(rt)
	EnableConsole(rt)
	initGlobalModule(rt)

	for _, fn := range v.initial {
		fn(rt)
	}
	return v
}

var symbolVM = sobek.NewSymbol("Symbol.__vm__")

type vm struct {
	rt      *sobek.Runtime
	ctx     context.Context
	loader  modules.Loader
	logger  *slog.Logger
	initial []func(*sobek.Runtime)
}

func self(rt *sobek.Runtime) *vm {
	v := rt.GlobalObject().GetSymbol(symbolVM)
	if v == nil {
		panic(rt.NewTypeError("runtime was not created by js.NewVM"))
	}
	return v.Export().(*vm)
}

func initGlobalModule(rt *sobek.Runtime) {
	for name, mod := range modules.All() {
		if _, ok := mod.(modules.Global); !ok {
			continue
		}
		instance, err := mod.Instantiate(rt)
		if err != nil {
			slog.Warn(fmt.Sprintf("instantiate global module %s failed", name), "error", err)
			continue
		}
		_ = rt.Set(name, instance)
	}
}

func (v *vm) Run(ctx context.Context, fn func() error) (err error) {
	v.rt.ClearInterrupt()
	v.ctx = ctx
	done := make(chan struct{})

	defer func() {
		close(done)
		v.ctx = context.Background()
		if r := recover(); r != nil {
			switch x := r.(type) {
			case *sobek.Exception:
				err = x
			case *sobek.InterruptedError:
				err = interrupted(x)
			default:
				v.logger.Error(fmt.Sprintf("vm run error %v", r), "stack", string(debug.Stack()))
				err = fmt.Errorf("vm run error: %v", r)
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			v.rt.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	err = fn()
	var ie *sobek.InterruptedError
	if errors.As(err, &ie) {
		err = interrupted(ie)
	}
	return
}

func interrupted(ie *sobek.InterruptedError) error {
	if err, ok := ie.Value().(error); ok {
		return err
	}
	return ie
}

func (v *vm) RunModule(ctx context.Context, module sobek.CyclicModuleRecord, args ...any) (ret sobek.Value, err error) {
	err = v.Run(ctx, func() error {
		instance, err := ModuleInstance(v.rt, v.loader.ResolveModule, module)
		if err != nil {
			return err
		}
		ret = instance.GetBindingValue("default")
		call, ok := sobek.AssertFunction(ret)
		if !ok {
			return nil
		}
		values := make([]sobek.Value, len(args))
		for i, arg := range args {
			values[i] = v.rt.ToValue(arg)
		}
		ret, err = call(sobek.Undefined(), values...)
		return err
	})
	return
}

func (v *vm) RunString(ctx context.Context, s string) (ret sobek.Value, err error) {
	err = v.Run(ctx, func() error {
		ret, err = v.rt.RunString(s)
		return err
	})
	return
}

func (v *vm) RunProgram(ctx context.Context, program *sobek.Program) (ret sobek.Value, err error) {
	err = v.Run(ctx, func() error {
		ret, err = v.rt.RunProgram(program)
		return err
	})
	return
}

func (v *vm) Runtime() *sobek.Runtime { return v.rt }
