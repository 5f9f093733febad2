package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_NestedProperty(t *testing.T) {
	body := []byte(`{"user":{"id":42,"name":"ana"}}`)

	v, ok := Lookup(body, "user.name")
	assert.True(t, ok)
	assert.Equal(t, "ana", v)
}

func TestLookup_ArrayIndex(t *testing.T) {
	body := []byte(`{"items":[{"id":1},{"id":2}]}`)

	v, ok := Lookup(body, "items[1].id")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestLookup_MissingPropertyNotFound(t *testing.T) {
	body := []byte(`{"user":{"id":42}}`)

	_, ok := Lookup(body, "user.missing")
	assert.False(t, ok)
}

func TestLookup_ObjectResultReturnsRawJSON(t *testing.T) {
	body := []byte(`{"user":{"id":42}}`)

	v, ok := Lookup(body, "user")
	assert.True(t, ok)
	assert.Equal(t, `{"id":42}`, v)
}

func TestLookup_InvalidJSONBody(t *testing.T) {
	_, ok := Lookup([]byte("not json"), "a")
	assert.False(t, ok)
}

func TestLookup_OutOfBoundsIndex(t *testing.T) {
	body := []byte(`{"items":[1,2]}`)

	_, ok := Lookup(body, "items[5]")
	assert.False(t, ok)
}

func TestLookup_NumberWithoutTrailingZeros(t *testing.T) {
	body := []byte(`{"price":1.50}`)

	v, ok := Lookup(body, "price")
	assert.True(t, ok)
	assert.Equal(t, "1.5", v)
}

func TestLookup_LiteralKeyNotTreatedAsWildcard(t *testing.T) {
	// gjson's own path syntax treats "*" and "#" specially; this package
	// must not guess and instead treat "*" as a literal property name.
	body := []byte(`{"*":"literal"}`)

	v, ok := Lookup(body, "*")
	assert.True(t, ok)
	assert.Equal(t, "literal", v)
}
