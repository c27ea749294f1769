package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var userRepoStub = NewStubRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewService(userRepoStub)
	return func() {
		t.Log("Teardown after test")
		userRepoStub.Cleanup()
	}
}

func seedCode(t *testing.T, code string) {
	t.Helper()
	require.NoError(t, userRepoStub.StoreRegistrationCode(ctx, RegistrationCode{Code: code, IsActive: true}))
}

func TestServiceImpl_Register(t *testing.T) {
	t.Run("should register a user with a valid code", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seedCode(t, "join-us")

		// when
		u, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "join-us")

		// then
		assert.NoError(t, err)
		assert.NotZero(t, u.Id)
		assert.NotEmpty(t, u.Uid)
		assert.Equal(t, RoleUser, u.Role)
	})

	t.Run("should reject an unknown registration code", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "nope")

		// then
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("should reject an already registered email", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seedCode(t, "join-us")
		_, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "join-us")
		require.NoError(t, err)

		// when
		_, err = service.Register(ctx, "ada@example.com", "other", "Ada Again", "join-us")

		// then
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestServiceImpl_Login(t *testing.T) {
	t.Run("should return a session token for valid credentials", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seedCode(t, "join-us")
		registered, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "join-us")
		require.NoError(t, err)

		// when
		u, token, err := service.Login(ctx, "ada@example.com", "s3cret")

		// then
		require.NoError(t, err)
		assert.Equal(t, registered.Id, u.Id)
		assert.NotEmpty(t, token)
		resolved, err := service.GetUserByToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, registered.Id, resolved.Id)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seedCode(t, "join-us")
		_, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "join-us")
		require.NoError(t, err)

		// when
		_, _, err = service.Login(ctx, "ada@example.com", "wrong")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should not reveal whether the email exists", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, _, err := service.Login(ctx, "ghost@example.com", "anything")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestServiceImpl_Logout(t *testing.T) {
	t.Run("should invalidate the session token", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seedCode(t, "join-us")
		_, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "join-us")
		require.NoError(t, err)
		_, token, err := service.Login(ctx, "ada@example.com", "s3cret")
		require.NoError(t, err)

		// when
		err = service.Logout(ctx, token)

		// then
		assert.NoError(t, err)
		_, err = service.GetUserByToken(ctx, token)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestServiceImpl_ChangePassword(t *testing.T) {
	t.Run("should replace the password when the current one matches", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seedCode(t, "join-us")
		u, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "join-us")
		require.NoError(t, err)
		authed := WithUser(ctx, u)

		// when
		err = service.ChangePassword(authed, "s3cret", "n3w-secret")

		// then
		require.NoError(t, err)
		_, _, err = service.Login(ctx, "ada@example.com", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, _, err = service.Login(ctx, "ada@example.com", "n3w-secret")
		assert.NoError(t, err)
	})

	t.Run("should reject a wrong current password", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seedCode(t, "join-us")
		u, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "join-us")
		require.NoError(t, err)
		authed := WithUser(ctx, u)

		// when
		err = service.ChangePassword(authed, "wrong", "n3w-secret")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestServiceImpl_EnsureOwner(t *testing.T) {
	t.Run("should seed an owner and a registration code on an empty database", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := service.EnsureOwner(ctx)

		// then
		require.NoError(t, err)
		owner, _, err := userRepoStub.FindByEmail(ctx, "owner@localhost")
		require.NoError(t, err)
		assert.Equal(t, RoleOwner, owner.Role)
		assert.True(t, owner.IsPrivileged())
	})

	t.Run("should do nothing when users exist", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seedCode(t, "join-us")
		_, err := service.Register(ctx, "ada@example.com", "s3cret", "Ada", "join-us")
		require.NoError(t, err)

		// when
		err = service.EnsureOwner(ctx)

		// then
		require.NoError(t, err)
		count, err := userRepoStub.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
