package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestUpgradePicture(t *testing.T) {
	t.Parallel()

	t.Run("upgrades known low-res token", func(t *testing.T) {
		got := UpgradePicture("https://lh3.googleusercontent.com/a/abc=s96-c")
		require.Equal(t, "https://lh3.googleusercontent.com/a/abc=s384-c", got)
	})

	t.Run("leaves unknown urls alone", func(t *testing.T) {
		got := UpgradePicture("https://example.com/avatar.png")
		require.Equal(t, "https://example.com/avatar.png", got)
	})

	t.Run("empty passes through", func(t *testing.T) {
		require.Equal(t, "", UpgradePicture(""))
	})
}

func TestGoogleVerifier(t *testing.T) {
	t.Parallel()

	t.Run("rejects everything when no client ID is configured", func(t *testing.T) {
		v := NewGoogleVerifier("")
		v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			t.Fatal("validate must not be called without a trusted audience")
			return nil, nil
		}

		_, err := v.Verify(context.Background(), "a-perfectly-valid-looking-token")
		require.ErrorIs(t, err, ErrUntrustedAssertion)
	})

	t.Run("rejects empty assertion without a network call", func(t *testing.T) {
		v := NewGoogleVerifier("client-id")
		v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			t.Fatal("validate must not be called for empty assertions")
			return nil, nil
		}

		_, err := v.Verify(context.Background(), "   ")
		require.ErrorIs(t, err, ErrUntrustedAssertion)
	})

	t.Run("wraps validation failures", func(t *testing.T) {
		v := NewGoogleVerifier("client-id")
		v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			require.Equal(t, "client-id", audience)
			return nil, errors.New("signature check failed")
		}

		_, err := v.Verify(context.Background(), "bad-token")
		require.ErrorIs(t, err, ErrUntrustedAssertion)
	})

	t.Run("extracts claims and upgrades picture", func(t *testing.T) {
		v := NewGoogleVerifier("client-id")
		v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Claims: map[string]any{
				"email":   "Alice@Example.com",
				"name":    "Alice Doe",
				"picture": "https://lh3.googleusercontent.com/a/x=s96-c",
			}}, nil
		}

		id, err := v.Verify(context.Background(), "good-token")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", id.Email)
		require.Equal(t, "Alice Doe", id.Name)
		require.Equal(t, "https://lh3.googleusercontent.com/a/x=s384-c", id.Picture)
	})

	t.Run("rejects assertions without an email claim", func(t *testing.T) {
		v := NewGoogleVerifier("client-id")
		v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Claims: map[string]any{"name": "No Email"}}, nil
		}

		_, err := v.Verify(context.Background(), "token")
		require.ErrorIs(t, err, ErrUntrustedAssertion)
	})
}
