package container_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-simpla/framework/container"
)

func TestError_WithServiceLeavesSentinelUntouched(t *testing.T) {
	named := container.ErrNotFound.WithService("mailer")

	assert.Equal(t, "mailer", named.Service)
	assert.Empty(t, container.ErrNotFound.Service)
	assert.ErrorIs(t, named, container.ErrNotFound)
	assert.Equal(t, `container: not found: "mailer"`, named.Error())
}

func TestError_MessageAndCause(t *testing.T) {
	boom := errors.New("boom")
	err := &container.Error{Code: container.ErrCodeFrozen, Service: "db", Message: "resolved", Cause: boom}

	assert.Equal(t, `container: frozen service: "db": resolved: boom`, err.Error())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, container.ErrNotFound)
}

func TestError_Predicates(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"not found", container.ErrNotFound, container.IsNotFound},
		{"invalid specification", container.ErrInvalidSpecification, container.IsInvalidSpecification},
		{"missing aliases", container.ErrMissingAliases, container.IsMissingAliases},
		{"frozen", container.ErrFrozen, container.IsFrozen},
		{"invalid identifier", container.ErrInvalidIdentifier, container.IsInvalidIdentifier},
		{"expected invokable", container.ErrExpectedInvokable, container.IsExpectedInvokable},
		{"protected", container.ErrProtected, container.IsProtected},
		{"undefined class", container.ErrUndefinedClass, container.IsUndefinedClass},
		{"undefined method", container.ErrUndefinedMethod, container.IsUndefinedMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("bootstrap: %w", tc.err)
			assert.True(t, tc.is(wrapped))
			assert.False(t, tc.is(errors.New(tc.name)))
		})
	}
}

func TestError_PredicatesOnRealFailures(t *testing.T) {
	c := container.New()

	_, err := c.Lookup("missing")
	assert.True(t, container.IsNotFound(err))

	err = c.Make("bad", func(a, b int) int { return a + b })
	assert.True(t, container.IsExpectedInvokable(err))

	_, err = c.Call(`App\Ghost@run`)
	assert.True(t, container.IsUndefinedClass(err))
}
