package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseForm(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []Pair{
		{"a", "1"},
		{"b", ""},
		{"c", ""},
		{"d", "x y z"},
		{"%zz", "€"},
		{"e", "1=2"},
	}, ParseForm("a=1&&b=&c&d=x+y%20z&%zz=%E2%82%AC&e=1=2"))

	assert.Equal(t, []Pair{{"a", "�"}}, ParseForm("a=%FF"))
	assert.Nil(t, ParseForm(""))
	assert.Nil(t, ParseForm("&&"))
}

func TestSerializeForm(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a+b=c%26d&%C3%A9=%7E", SerializeForm([]Pair{{"a b", "c&d"}, {"é", "~"}}))
	assert.Equal(t, "%25=", SerializeForm([]Pair{{"%", ""}}))
	assert.Equal(t, "*-._=", SerializeForm([]Pair{{"*-._", ""}}))
	assert.Equal(t, "", SerializeForm(nil))
}
