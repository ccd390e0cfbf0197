package types

import (
	"testing"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	t.Parallel()
	rt := sobek.New()

	t.Run("nullish", func(t *testing.T) {
		assert.True(t, IsNullish(nil))
		assert.True(t, IsNullish(sobek.Undefined()))
		assert.True(t, IsNullish(sobek.Null()))
		assert.False(t, IsNullish(rt.ToValue("")))
		assert.False(t, IsNullish(rt.ToValue(0)))
	})

	t.Run("object", func(t *testing.T) {
		fn, err := rt.RunString(`(() => {})`)
		assert.NoError(t, err)
		assert.True(t, IsObject(fn))
		assert.True(t, IsObject(rt.NewObject()))
		assert.True(t, IsObject(rt.NewArray()))
		assert.False(t, IsObject(rt.ToValue("a=1")))
		assert.False(t, IsObject(sobek.Null()))
	})
}
