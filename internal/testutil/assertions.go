package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/tokendi"
)

// AssertResolvable checks that token resolves to a non-nil T
func AssertResolvable[T any](t *testing.T, r tokendi.Resolver, token any) T {
	t.Helper()
	instance, err := tokendi.Resolve[T](r, token)
	require.NoError(t, err, "failed to resolve %v", token)
	require.NotNil(t, instance, "resolved instance for %v is nil", token)
	return instance
}

// AssertNotFound checks that token resolution fails with a not found error
func AssertNotFound(t *testing.T, r tokendi.Resolver, token any) {
	t.Helper()
	_, err := r.Get(token)
	assert.Error(t, err)
	assert.True(t, tokendi.IsNotFound(err), "expected definition not found error, got: %v", err)
}

// AssertCircularDependency checks if an error is a circular dependency error
func AssertCircularDependency(t *testing.T, err error) *tokendi.CircularDependencyError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, tokendi.IsCircularDependency(err), "expected circular dependency error, got: %v", err)
	return AssertErrorType[*tokendi.CircularDependencyError](t, err)
}

// AssertErrorType checks if an error is of a specific type
func AssertErrorType[T error](t *testing.T, err error, msgAndArgs ...any) T {
	t.Helper()
	var target T
	assert.ErrorAs(t, err, &target, msgAndArgs...)
	return target
}

// AssertPanicsWithError checks if a function panics with specific error
func AssertPanicsWithError(t *testing.T, expectedError error, f func(), msgAndArgs ...any) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			assert.Fail(t, "function did not panic", msgAndArgs...)
			return
		}

		err, ok := r.(error)
		if !ok {
			assert.Fail(t, "panic value is not an error", "%v", r)
			return
		}

		assert.ErrorIs(t, err, expectedError, msgAndArgs...)
	}()
	f()
}

// AssertSameInstance verifies two resolutions returned the same instance
func AssertSameInstance(t *testing.T, expected, actual any, msgAndArgs ...any) {
	t.Helper()
	assert.Same(t, expected, actual, msgAndArgs...)
}

// AssertDifferentInstances verifies two resolutions returned different instances
func AssertDifferentInstances(t *testing.T, first, second any, msgAndArgs ...any) {
	t.Helper()
	assert.NotSame(t, first, second, msgAndArgs...)
}

// AssertClosed checks that a closed container rejects resolution
func AssertClosed(t *testing.T, c *tokendi.Container, token any) {
	t.Helper()
	_, err := c.Get(token)
	assert.ErrorIs(t, err, tokendi.ErrContainerClosed)
}

// RequireBuild builds b and fails the test on error
func RequireBuild(t *testing.T, b *tokendi.Builder, opts ...tokendi.Option) *tokendi.Container {
	t.Helper()
	c, err := b.Build(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}
