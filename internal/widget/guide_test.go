package widget

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clipFunc func(ctx context.Context, text string) error

func (f clipFunc) Copy(ctx context.Context, text string) error { return f(ctx, text) }

func TestFallbackClipboard(t *testing.T) {
	ctx := context.Background()
	ok := clipFunc(func(context.Context, string) error { return nil })
	denied := errors.New("denied")
	broken := errors.New("exec command failed")

	t.Run("primary wins", func(t *testing.T) {
		called := false
		c := FallbackClipboard{Primary: ok, Fallback: clipFunc(func(context.Context, string) error {
			called = true
			return nil
		})}

		require.NoError(t, c.Copy(ctx, "x"))
		assert.False(t, called)
	})

	t.Run("missing primary uses fallback", func(t *testing.T) {
		assert.NoError(t, FallbackClipboard{Fallback: ok}.Copy(ctx, "x"))
	})

	t.Run("both fail", func(t *testing.T) {
		c := FallbackClipboard{
			Primary:  clipFunc(func(context.Context, string) error { return denied }),
			Fallback: clipFunc(func(context.Context, string) error { return broken }),
		}

		err := c.Copy(ctx, "x")

		assert.ErrorIs(t, err, denied)
		assert.ErrorIs(t, err, broken)
	})

	t.Run("primary fails without fallback", func(t *testing.T) {
		c := FallbackClipboard{Primary: clipFunc(func(context.Context, string) error { return denied })}

		assert.ErrorIs(t, c.Copy(ctx, "x"), denied)
	})
}

func TestPresenterFor(t *testing.T) {
	assert.IsType(t, DialogPresenter{}, PresenterFor(Config{}))
	assert.IsType(t, WindowPresenter{}, PresenterFor(Config{ShareGuideInNewWindow: true}))

	g, err := DialogPresenter{}.Present(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GradesSiteURL, g.SiteURL)
	require.Len(t, g.Buttons, 2)
	assert.Equal(t, ActionConfirm, g.Buttons[0].Action)
	assert.Contains(t, g.Code, "document.head.appendChild(script);")
}
