package identity_test

import (
	"testing"

	"github.com/marcelsud/webhook-messenger/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Run("success - demo account", func(t *testing.T) {
		service := identity.NewService()

		id, token, err := service.Login("demo@example.com", "demo123")

		require.NoError(t, err)
		assert.Equal(t, "1", id.ID)
		assert.Equal(t, "Demo User", id.Username)
		assert.NotEmpty(t, token)

		got, err := service.Session(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("error - wrong password", func(t *testing.T) {
		service := identity.NewService()

		_, _, err := service.Login("demo@example.com", "wrong")

		require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})

	t.Run("error - unknown email", func(t *testing.T) {
		service := identity.NewService()

		_, _, err := service.Login("nobody@example.com", "demo123")

		require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})
}

func TestRegister(t *testing.T) {
	t.Run("success - new account gets a session", func(t *testing.T) {
		service := identity.NewService()

		id, token, err := service.Register("newuser", "new@example.com", "secret")

		require.NoError(t, err)
		assert.NotEmpty(t, id.ID)
		assert.Equal(t, "newuser", id.Username)

		got, err := service.Session(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("success - registered account can log in again", func(t *testing.T) {
		service := identity.NewService()

		registered, _, err := service.Register("newuser", "new@example.com", "secret")
		require.NoError(t, err)

		loggedIn, _, err := service.Login("new@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, loggedIn.ID)
	})

	t.Run("error - email already taken", func(t *testing.T) {
		service := identity.NewService()

		_, _, err := service.Register("other", "demo@example.com", "x")

		require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	t.Run("success - session destroyed", func(t *testing.T) {
		service := identity.NewService()

		_, token, err := service.Login("demo@example.com", "demo123")
		require.NoError(t, err)

		service.Logout(token)

		_, err = service.Session(token)
		require.ErrorIs(t, err, identity.ErrNoSession)
	})

	t.Run("success - unknown token is a no-op", func(t *testing.T) {
		service := identity.NewService()
		service.Logout("never-issued")
	})
}
