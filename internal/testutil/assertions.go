package testutil

import (
	"testing"

	"github.com/junioryono/godi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertResolvable resolves T or fails the test.
func AssertResolvable[T any](t *testing.T, sp godi.ServiceProvider) T {
	t.Helper()
	service, err := godi.Resolve[T](sp)
	require.NoError(t, err, "failed to resolve %s", godi.TypeOf[T]())
	return service
}

// AssertResolvableAll resolves every registration of T or fails the test.
func AssertResolvableAll[T any](t *testing.T, sp godi.ServiceProvider, count int) []T {
	t.Helper()
	services, err := godi.ResolveAll[T](sp)
	require.NoError(t, err, "failed to resolve all %s", godi.TypeOf[T]())
	require.Len(t, services, count)
	return services
}

// AssertNotFound checks that T has no registration.
func AssertNotFound[T any](t *testing.T, sp godi.ServiceProvider) {
	t.Helper()
	_, err := godi.Resolve[T](sp)
	require.Error(t, err)
	assert.True(t, godi.IsNotFound(err), "expected not found error, got: %v", err)
}

// AssertErrorType checks that err is a T and returns it.
func AssertErrorType[T error](t *testing.T, err error, msgAndArgs ...any) T {
	t.Helper()
	var target T
	require.ErrorAs(t, err, &target, msgAndArgs...)
	return target
}

// AssertCircularDependency checks that err reports a circular dependency.
func AssertCircularDependency(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, godi.IsCircularDependencyError(err), "expected circular dependency error, got: %v", err)
}

// AssertDisposed checks that err comes from a closed scope or provider.
func AssertDisposed(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, godi.IsScopeDisposed(err), "expected disposed error, got: %v", err)
}

// AssertChain checks the decoration chain of a service, outermost first.
func AssertChain(t *testing.T, want []string, service interface{ Describe() string }) {
	t.Helper()
	assert.Equal(t, want, Describe(service))
}
