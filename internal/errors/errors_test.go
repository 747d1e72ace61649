package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderCarriesMetadata(t *testing.T) {
	t.Parallel()

	err := Newf("object %d vanished", 42).
		Category(CategoryNotFound).
		Context("object_id", 42).
		Component("catalog").
		Build()

	assert.Equal(t, "object 42 vanished", err.Error())
	assert.Equal(t, "not-found", err.GetCategory())
	assert.Equal(t, "catalog", err.GetComponent())
	assert.Equal(t, 42, err.GetContext()["object_id"])
}

func TestWrappingPreservesChain(t *testing.T) {
	t.Parallel()

	root := fmt.Errorf("connection refused")
	err := Newf("fetch failed: %w", root).
		Category(CategoryNetwork).
		Component("metapi").
		Build()

	assert.True(t, Is(err, root))

	var enhanced *EnhancedError
	require.True(t, As(err, &enhanced))
	assert.Equal(t, CategoryNetwork, enhanced.Category)
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	notFound := Newf("gone").Category(CategoryNotFound).Component("x").Build()
	network := Newf("down").Category(CategoryNetwork).Component("x").Build()

	assert.True(t, IsCategory(notFound, CategoryNotFound))
	assert.False(t, IsCategory(notFound, CategoryNetwork))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(network))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestIsCategoryThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := Newf("gone").Category(CategoryNotFound).Component("x").Build()
	wrapped := fmt.Errorf("while assembling: %w", inner)

	assert.True(t, IsNotFound(wrapped))
}

func TestContextIsCopied(t *testing.T) {
	t.Parallel()

	err := Newf("x").Category(CategoryGeneric).Context("k", "v").Component("x").Build()

	ctx := err.GetContext()
	ctx["k"] = "mutated"
	assert.Equal(t, "v", err.GetContext()["k"])
}
