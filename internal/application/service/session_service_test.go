package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/financaspro/finance-core/internal/domain/entity"
	domainsvc "github.com/financaspro/finance-core/internal/domain/service"
	"github.com/financaspro/finance-core/internal/infrastructure/db"
	"github.com/financaspro/finance-core/internal/mocks"
)

func newSessionFixture() (*mocks.MockFinanceAPI, *db.MemoryPreferenceStore, *SessionService) {
	api := new(mocks.MockFinanceAPI)
	prefs := db.NewMemoryPreferenceStore()
	sessions := NewSessionService(api, prefs, zerolog.Nop())
	return api, prefs, sessions
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success establishes session and persists token", func(t *testing.T) {
		api, prefs, sessions := newSessionFixture()
		api.On("Login", ctx, "ana", "segredo1").Return(&domainsvc.LoginResult{
			Token: "tok-1",
			User:  entity.User{ID: "u1", Username: "ana", FirstName: "Ana"},
		}, nil).Once()

		var observed *entity.Session
		sessions.Subscribe(func(s *entity.Session) { observed = s })

		session, err := sessions.Login(ctx, "ana", "segredo1")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", session.Token)
		assert.Equal(t, "Ana", session.User.FirstName)

		token, _ := prefs.Token()
		assert.Equal(t, "tok-1", token)
		require.NotNil(t, observed)
		assert.Equal(t, "ana", observed.User.Username)
		api.AssertExpectations(t)
	})

	t.Run("invalid credentials leave session absent", func(t *testing.T) {
		api, prefs, sessions := newSessionFixture()
		api.On("Login", ctx, "ana", "wrong").Return(nil, &entity.AuthError{
			Kind:    entity.AuthInvalidCredentials,
			Message: "incorrect username or password",
		}).Once()

		_, err := sessions.Login(ctx, "ana", "wrong")
		var ae *entity.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, entity.AuthInvalidCredentials, ae.Kind)
		assert.Nil(t, sessions.Current())
		token, _ := prefs.Token()
		assert.Empty(t, token)
	})

	t.Run("failure does not clobber an existing session", func(t *testing.T) {
		api, _, sessions := newSessionFixture()
		api.On("Login", ctx, "ana", "segredo1").Return(&domainsvc.LoginResult{
			Token: "tok-1", User: entity.User{Username: "ana"},
		}, nil).Once()
		api.On("Login", ctx, "ana", "typo").Return(nil, &entity.AuthError{
			Kind: entity.AuthInvalidCredentials,
		}).Once()

		_, err := sessions.Login(ctx, "ana", "segredo1")
		require.NoError(t, err)
		_, err = sessions.Login(ctx, "ana", "typo")
		require.Error(t, err)
		require.NotNil(t, sessions.Current())
		assert.Equal(t, "tok-1", sessions.Current().Token)
	})

	t.Run("empty token in response is malformed", func(t *testing.T) {
		api, _, sessions := newSessionFixture()
		api.On("Login", ctx, "ana", "segredo1").Return(&domainsvc.LoginResult{}, nil).Once()

		_, err := sessions.Login(ctx, "ana", "segredo1")
		var ae *entity.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, entity.AuthMalformedResponse, ae.Kind)
		assert.Nil(t, sessions.Current())
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	login := func(api *mocks.MockFinanceAPI, sessions *SessionService) {
		api.On("Login", ctx, "ana", "segredo1").Return(&domainsvc.LoginResult{
			Token: "tok-1", User: entity.User{Username: "ana"},
		}, nil).Once()
		_, err := sessions.Login(ctx, "ana", "segredo1")
		if err != nil {
			panic(err)
		}
	}

	t.Run("no session and no persisted token", func(t *testing.T) {
		_, _, sessions := newSessionFixture()
		session, err := sessions.Verify(ctx)
		assert.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("restores session from persisted token", func(t *testing.T) {
		api, prefs, sessions := newSessionFixture()
		require.NoError(t, prefs.SetToken("tok-saved"))
		api.On("VerifyToken", ctx, "tok-saved").Return(&domainsvc.VerifyResult{
			Valid: true, User: entity.User{Username: "ana"},
		}, nil).Once()

		session, err := sessions.Verify(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "tok-saved", session.Token)
		assert.Equal(t, "ana", session.User.Username)
	})

	t.Run("network failure leaves session untouched", func(t *testing.T) {
		api, prefs, sessions := newSessionFixture()
		login(api, sessions)
		api.On("VerifyToken", ctx, "tok-1").Return(nil, &entity.RemoteError{
			Kind: entity.RemoteNetworkFailure,
		}).Once()

		session, err := sessions.Verify(ctx)
		require.Error(t, err)
		assert.True(t, entity.IsTransient(err))
		require.NotNil(t, session)
		assert.Equal(t, "tok-1", session.Token)
		token, _ := prefs.Token()
		assert.Equal(t, "tok-1", token)
	})

	t.Run("explicit rejection forces logout", func(t *testing.T) {
		api, prefs, sessions := newSessionFixture()
		login(api, sessions)
		api.On("VerifyToken", ctx, "tok-1").Return(nil, &entity.RemoteError{
			Kind: entity.RemoteUnauthorized, StatusCode: 401,
		}).Once()

		_, err := sessions.Verify(ctx)
		assert.ErrorIs(t, err, ErrSessionInvalid)
		assert.Nil(t, sessions.Current())
		token, _ := prefs.Token()
		assert.Empty(t, token)
	})

	t.Run("valid false forces logout", func(t *testing.T) {
		api, prefs, sessions := newSessionFixture()
		login(api, sessions)
		api.On("VerifyToken", ctx, "tok-1").Return(&domainsvc.VerifyResult{Valid: false}, nil).Once()

		var observed *entity.Session = &entity.Session{Token: "sentinel"}
		sessions.Subscribe(func(s *entity.Session) { observed = s })

		_, err := sessions.Verify(ctx)
		assert.ErrorIs(t, err, ErrSessionInvalid)
		assert.Nil(t, sessions.Current())
		assert.Nil(t, observed)
		token, _ := prefs.Token()
		assert.Empty(t, token)
	})

	t.Run("result discarded when logout raced the verification", func(t *testing.T) {
		api, _, sessions := newSessionFixture()
		login(api, sessions)
		api.On("VerifyToken", ctx, "tok-1").Run(func(args mock.Arguments) {
			sessions.Logout()
		}).Return(&domainsvc.VerifyResult{Valid: true, User: entity.User{Username: "ana"}}, nil).Once()

		_, err := sessions.Verify(ctx)
		assert.ErrorIs(t, err, entity.ErrStaleOperation)
		assert.Nil(t, sessions.Current())
	})
}

func TestLogout(t *testing.T) {
	t.Run("idempotent with no active session", func(t *testing.T) {
		_, _, sessions := newSessionFixture()
		assert.NotPanics(t, func() {
			sessions.Logout()
			sessions.Logout()
		})
		assert.Nil(t, sessions.Current())
	})

	t.Run("bumps the generation", func(t *testing.T) {
		_, _, sessions := newSessionFixture()
		before := sessions.Generation()
		sessions.Logout()
		assert.Greater(t, sessions.Generation(), before)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	valid := domainsvc.Registration{
		FirstName: "Ana", LastName: "Souza", Username: "ana",
		Email: "ana@example.com", Password: "segredo1",
	}

	t.Run("valid registration reaches the backend", func(t *testing.T) {
		api, _, sessions := newSessionFixture()
		api.On("Register", ctx, valid).Return(nil).Once()
		assert.NoError(t, sessions.Register(ctx, valid))
		api.AssertExpectations(t)
	})

	t.Run("local validation never reaches the backend", func(t *testing.T) {
		api, _, sessions := newSessionFixture()

		missing := valid
		missing.Email = ""
		var ve *entity.ValidationError
		require.ErrorAs(t, sessions.Register(ctx, missing), &ve)

		badEmail := valid
		badEmail.Email = "not-an-email"
		require.ErrorAs(t, sessions.Register(ctx, badEmail), &ve)
		assert.Equal(t, "email", ve.Field)

		short := valid
		short.Password = "abc"
		require.ErrorAs(t, sessions.Register(ctx, short), &ve)
		assert.Equal(t, "password", ve.Field)

		api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("backend rejection is surfaced", func(t *testing.T) {
		api, _, sessions := newSessionFixture()
		api.On("Register", ctx, valid).Return(&entity.RemoteError{
			Kind: entity.RemoteServerError, Message: "Nome de usuário já está em uso.",
		}).Once()

		err := sessions.Register(ctx, valid)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "já está em uso")
	})
}

func TestForceLogout(t *testing.T) {
	ctx := context.Background()
	api, _, sessions := newSessionFixture()
	api.On("Login", ctx, "ana", "segredo1").Return(&domainsvc.LoginResult{
		Token: "tok-1", User: entity.User{Username: "ana"},
	}, nil).Once()
	_, err := sessions.Login(ctx, "ana", "segredo1")
	require.NoError(t, err)

	sessions.ForceLogout()
	assert.Nil(t, sessions.Current())
}
