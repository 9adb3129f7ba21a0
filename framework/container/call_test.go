package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-simpla/framework/container"
)

type Calculator struct{}

func (Calculator) Sum(nums ...int) int {
	total := 0
	for _, n := range nums {
		total += n
	}
	return total
}

func (Calculator) Scale(factor float64, values ...int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v) * factor
	}
	return out
}

var errDivideByZero = errors.New("divide by zero")

func (Calculator) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivideByZero
	}
	return a / b, nil
}

func (Calculator) Reset() {}

func TestIsSignature(t *testing.T) {
	assert.True(t, container.IsSignature(`App\Greeter@greet`))
	assert.True(t, container.IsSignature(`App\Greeter@`))
	assert.False(t, container.IsSignature(`App\Greeter`))
	assert.False(t, container.IsSignature([]string{"a", "b"}))
}

// ── Signatures ────────────────────────────────────────────────────────────────

func TestCall_SignatureAutowiresClass(t *testing.T) {
	c := newGreeterContainer(t)

	out, err := c.Call(`App\Greeter@greet`, "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
	assert.True(t, c.Has(`App\Greeter`), "the class is bound on first call")
}

func TestCall_EmptyMethodUsesDefault(t *testing.T) {
	c := newGreeterContainer(t)

	out, err := c.CallDefault(`App\Greeter@`, "greet", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestCall_EmptyMethodWithoutDefault(t *testing.T) {
	c := newGreeterContainer(t)

	_, err := c.Call(`App\Greeter@`, "world")
	assert.ErrorIs(t, err, container.ErrInvalidSpecification)
	assert.True(t, container.IsInvalidSpecification(err))
}

func TestCall_SplitsOnFirstAt(t *testing.T) {
	_, err := newGreeterContainer(t).Call(`App\Greeter@greet@twice`, "world")
	assert.ErrorIs(t, err, container.ErrUndefinedMethod)
}

func TestCall_UsesExistingBinding(t *testing.T) {
	c := newGreeterContainer(t)
	require.NoError(t, c.Singleton(`App\Greeter`, func() any { return &Greeter{Greeting: "howdy"} }))

	out, err := c.Call(`App\Greeter@greet`, "partner")
	require.NoError(t, err)
	assert.Equal(t, "howdy partner", out)
	assert.Equal(t, []string{`App\Greeter`}, c.Keys())
}

func TestCall_UndefinedClassLeavesNoBinding(t *testing.T) {
	c := container.New()

	_, err := c.Call(`App\Ghost@haunt`)
	assert.ErrorIs(t, err, container.ErrUndefinedClass)
	assert.False(t, c.Has(`App\Ghost`))
}

func TestCall_UndefinedMethod(t *testing.T) {
	_, err := newGreeterContainer(t).Call(`App\Greeter@wave`)
	assert.ErrorIs(t, err, container.ErrUndefinedMethod)
}

// ── Other spec shapes ─────────────────────────────────────────────────────────

func TestCall_InstanceAndMethodPair(t *testing.T) {
	c := container.New()

	out, err := c.Call([]any{&Greeter{Greeting: "hey"}, "greet"}, "you")
	require.NoError(t, err)
	assert.Equal(t, "hey you", out)
}

func TestCall_StringPairWithDefault(t *testing.T) {
	c := newGreeterContainer(t)

	out, err := c.CallDefault([]string{`App\Greeter`}, "Greet", "again")
	require.NoError(t, err)
	assert.Equal(t, "hello again", out)
}

func TestCall_Function(t *testing.T) {
	out, err := container.New().Call(func(a, b int) int { return a + b }, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, out)
}

func TestCall_RejectsUncallable(t *testing.T) {
	_, err := container.New().Call(42)
	assert.ErrorIs(t, err, container.ErrInvalidSpecification)

	_, err = container.New().Call([]any{"a", "b", "c"})
	assert.ErrorIs(t, err, container.ErrInvalidSpecification)

	_, err = container.New().Call([]any{Calculator{}, 7})
	assert.ErrorIs(t, err, container.ErrInvalidSpecification)
}

// ── Invoke ────────────────────────────────────────────────────────────────────

func TestInvoke_Arguments(t *testing.T) {
	calc := Calculator{}

	tests := []struct {
		name   string
		method string
		args   []any
		want   any
	}{
		{"variadic empty", "Sum", nil, 0},
		{"variadic", "Sum", []any{1, 2, 3}, 6},
		{"numeric conversion", "Sum", []any{int64(4), uint8(5)}, 9},
		{"fixed then variadic", "Scale", []any{2, 1, 2}, []float64{2, 4}},
		{"lower-case name", "sum", []any{10}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := container.Invoke(calc, tt.method, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestInvoke_TrailingErrorIsReturned(t *testing.T) {
	out, err := container.Invoke(Calculator{}, "Divide", 9, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, out)

	_, err = container.Invoke(Calculator{}, "Divide", 1, 0)
	assert.ErrorIs(t, err, errDivideByZero)
}

func TestInvoke_NoResults(t *testing.T) {
	out, err := container.Invoke(Calculator{}, "Reset")
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestInvoke_BadArguments(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		_, err := container.Invoke(Calculator{}, "Divide", 1)
		assert.ErrorIs(t, err, container.ErrInvalidSpecification)
	})

	t.Run("type", func(t *testing.T) {
		_, err := container.Invoke(Calculator{}, "Divide", "1", 2)
		assert.ErrorIs(t, err, container.ErrInvalidSpecification)
	})

	t.Run("nil for value type", func(t *testing.T) {
		_, err := container.Invoke(Calculator{}, "Divide", nil, 2)
		assert.ErrorIs(t, err, container.ErrInvalidSpecification)
	})

	t.Run("nil target", func(t *testing.T) {
		_, err := container.Invoke(nil, "Sum")
		assert.ErrorIs(t, err, container.ErrInvalidSpecification)
	})
}
