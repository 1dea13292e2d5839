package testutil

import (
	"errors"
	"reflect"
	"testing"

	"github.com/junioryono/dependor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertResolvable checks that name resolves through h and returns the value
func AssertResolvable(t *testing.T, h dependor.Host, name string) any {
	t.Helper()
	require.True(t, h.Resolvable(name), "expected %q to be resolvable", name)
	value, err := h.Get(name)
	require.NoError(t, err, "failed to resolve %q", name)
	return value
}

// AssertNotFound checks that name is neither resolvable nor gettable through h
func AssertNotFound(t *testing.T, h dependor.Host, name string) {
	t.Helper()
	assert.False(t, h.Resolvable(name), "expected %q to be unresolvable", name)
	_, err := h.Get(name)
	require.Error(t, err)
	assert.True(t, dependor.IsNotFound(err), "expected dependency not found error, got: %v", err)

	missing, ok := dependor.MissingName(err)
	assert.True(t, ok)
	assert.Equal(t, name, missing)
}

// AssertInstantiationFailed checks err is an InstantiationError naming the
// missing dependency and the target type
func AssertInstantiationFailed(t *testing.T, err error, name string, target reflect.Type) {
	t.Helper()
	require.Error(t, err)

	var ie dependor.InstantiationError
	require.True(t, errors.As(err, &ie), "expected InstantiationError, got %T: %v", err, err)
	assert.Equal(t, name, ie.Name)
	assert.Equal(t, target, ie.Target)
	assert.Contains(t, err.Error(), name)
}
