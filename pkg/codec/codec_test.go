package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	ID string `json:"id"`
}

func TestJSONStrict_RejectsUnknownAndTrailing(t *testing.T) {
	var o order
	assert.Error(t, JSONStrict.Unmarshal([]byte(`{"id":"1","x":2}`), &o))
	assert.Error(t, JSONStrict.Unmarshal([]byte(`{"id":"1"} {}`), &o))
	require.NoError(t, JSONStrict.Unmarshal([]byte(`{"id":"1"}`), &o))
	assert.Equal(t, "1", o.ID)
}

func TestJSON_Lenient(t *testing.T) {
	var o order
	require.NoError(t, JSON.Unmarshal([]byte(`{"id":"2","x":2}`), &o))
	assert.Equal(t, "2", o.ID)

	out, err := JSON.Marshal(map[string]string{"q": "<a&b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"q":"<a&b>"}`, string(out))
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("")
	assert.True(t, ok)
	assert.Equal(t, JSON, c)

	c, ok = Lookup(" JSON-Strict ")
	assert.True(t, ok)
	assert.Equal(t, JSONStrict, c)

	_, ok = Lookup("msgpack")
	assert.False(t, ok)
}
