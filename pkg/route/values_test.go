package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues_GetIsCaseInsensitive(t *testing.T) {
	v := Values{"Controller": "Home", "id": 42}

	x, ok := v.Get("controller")
	assert.True(t, ok)
	assert.Equal(t, "Home", x)

	assert.Equal(t, "42", v.String("ID"))
	assert.Equal(t, "", v.String("missing"))
}

func TestValues_WithDefaultsKeepsExisting(t *testing.T) {
	v := Values{"action": "list"}
	out := v.WithDefaults(Values{"Action": "index", "controller": "home"})

	assert.Equal(t, "list", out.String("action"))
	assert.Equal(t, "home", out.String("controller"))
	assert.Len(t, out, 2)
	assert.Len(t, v, 1, "receiver untouched")
}

func TestNewData_CopiesValues(t *testing.T) {
	src := Values{"id": "7"}
	d := NewData("/orders/{id}", src)
	d.Values["id"] = "8"

	assert.Equal(t, "7", src["id"])
	assert.Equal(t, "/orders/{id}", d.Template)
}

func TestValues_Keys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Values{"c": 1, "a": 2, "b": 3}.Keys())
	assert.Empty(t, Values(nil).Keys())
}
