package js

import (
	"context"
	"errors"
	"testing"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeError(t *testing.T) {
	t.Parallel()
	vm := NewVM(WithInitial(func(rt *sobek.Runtime) {
		_ = rt.Set("fail", func(call sobek.FunctionCall) sobek.Value {
			panic(TypeError(rt, "ERR_INVALID_URL", "Invalid URL: %s", call.Argument(0)))
		})
		_ = rt.Set("goError", func() {
			Throw(rt, errors.New("go error"))
		})
	}))
	ctx := context.Background()

	v, err := vm.RunString(ctx, `
		try { fail("x") } catch (e) { [e instanceof TypeError, e.code, e.message].join() }`)
	require.NoError(t, err)
	assert.Equal(t, "true,ERR_INVALID_URL,Invalid URL: x", v.String())

	_, err = vm.RunString(ctx, `goError()`)
	assert.ErrorContains(t, err, "go error")
}

func TestUnwrap(t *testing.T) {
	t.Parallel()
	vm := NewVM()
	ctx := context.Background()

	v, err := Unwrap(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	value, err := vm.RunString(ctx, `new Uint8Array([1, 2]).buffer`)
	require.NoError(t, err)
	v, err = Unwrap(value)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, v)

	value, err = vm.RunString(ctx, `Promise.reject("rejected")`)
	require.NoError(t, err)
	_, err = Unwrap(value)
	assert.ErrorContains(t, err, "rejected")
}
