package facade_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-simpla/framework/container"
	"github.com/km-arc/go-simpla/framework/facade"
)

type shouter struct{}

func (shouter) Shout(words ...string) string {
	return strings.ToUpper(strings.Join(words, " "))
}

var errQuiet = errors.New("too quiet")

func (shouter) Whisper(string) (string, error) { return "", errQuiet }

type Shout struct{}

func (Shout) FacadeAccessor() string { return "shouter" }

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	require.NoError(t, c.Singleton("shouter", func() any { return shouter{} }))
	return c
}

func TestProxy_ForwardsVariadicArgs(t *testing.T) {
	c := newContainer(t)
	p := facade.New(c, "shouter")

	for _, words := range [][]any{
		{},
		{"a"},
		{"a", "b", "c", "d"},
		{"a", "b", "c", "d", "e", "f"},
	} {
		out, err := p.Call("Shout", words...)
		require.NoError(t, err)

		want := make([]string, len(words))
		for i, w := range words {
			want[i] = strings.ToUpper(w.(string))
		}
		assert.Equal(t, strings.Join(want, " "), out)
	}
}

func TestForward_UsesAccessor(t *testing.T) {
	out, err := facade.Forward(newContainer(t), Shout{}, "shout", "hi")
	require.NoError(t, err)
	assert.Equal(t, "HI", out)
}

func TestProxy_Root(t *testing.T) {
	root, err := facade.Of(newContainer(t), Shout{}).Root()
	require.NoError(t, err)
	assert.IsType(t, shouter{}, root)
}

func TestProxy_Errors(t *testing.T) {
	c := newContainer(t)

	t.Run("unbound accessor", func(t *testing.T) {
		_, err := facade.New(c, "missing").Call("Shout")
		assert.ErrorIs(t, err, container.ErrNotFound)
	})

	t.Run("undefined method", func(t *testing.T) {
		_, err := facade.New(c, "shouter").Call("Sing")
		assert.ErrorIs(t, err, container.ErrUndefinedMethod)
	})

	t.Run("method error", func(t *testing.T) {
		_, err := facade.New(c, "shouter").Call("Whisper", "psst")
		assert.ErrorIs(t, err, errQuiet)
	})
}

func TestProxy_NilContainerUsesInstance(t *testing.T) {
	require.NoError(t, container.Instance(nil).Make("shouter", shouter{}))

	out, err := facade.Forward(nil, Shout{}, "Shout", "global")
	require.NoError(t, err)
	assert.Equal(t, "GLOBAL", out)
}
