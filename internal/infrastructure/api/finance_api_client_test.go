package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financaspro/finance-core/internal/domain/entity"
	domainsvc "github.com/financaspro/finance-core/internal/domain/service"
	"github.com/financaspro/finance-core/internal/infrastructure/stub"
)

func newFixture(t *testing.T) (*stub.Server, *FinanceAPIClient) {
	t.Helper()
	backend := stub.NewServer(zerolog.Nop())
	backend.SeedUser("Ana", "Souza", "ana", "ana@example.com", "segredo1")
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)
	return backend, NewFinanceAPIClient(srv.URL, srv.Client(), zerolog.Nop())
}

func registration(username, email string) domainsvc.Registration {
	return domainsvc.Registration{
		FirstName: "Bruno", LastName: "Lima",
		Username: username, Email: email, Password: "segredo1",
	}
}

func draft() entity.TransactionDraft {
	return entity.TransactionDraft{
		Type:        entity.TypeExpense,
		Description: "Lunch",
		Amount:      decimal.RequireFromString("25.50"),
		Category:    "Alimentação",
		Date:        entity.NewDate(2025, 1, 10),
	}
}

func TestClientLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns token and user", func(t *testing.T) {
		_, client := newFixture(t)
		result, err := client.Login(ctx, "ana", "segredo1")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "ana", result.User.Username)
		assert.Equal(t, "Ana", result.User.FirstName)
	})

	t.Run("wrong password maps to invalid credentials", func(t *testing.T) {
		_, client := newFixture(t)
		_, err := client.Login(ctx, "ana", "wrong")
		var ae *entity.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, entity.AuthInvalidCredentials, ae.Kind)
		assert.Equal(t, "Credenciais inválidas.", ae.Message)
	})

	t.Run("unreachable server maps to network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		client := NewFinanceAPIClient(url, nil, zerolog.Nop())

		_, err := client.Login(ctx, "ana", "segredo1")
		var ae *entity.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, entity.AuthNetworkFailure, ae.Kind)
		assert.Contains(t, ae.Message, "connection")
	})

	t.Run("malformed response body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"unexpected": true}`))
		}))
		t.Cleanup(srv.Close)
		client := NewFinanceAPIClient(srv.URL, srv.Client(), zerolog.Nop())

		_, err := client.Login(ctx, "ana", "segredo1")
		var ae *entity.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, entity.AuthMalformedResponse, ae.Kind)
	})
}

func TestClientVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		backend, client := newFixture(t)
		token := backend.IssueToken("ana")
		result, err := client.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, "ana", result.User.Username)
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		_, client := newFixture(t)
		_, err := client.VerifyToken(ctx, "bogus")
		assert.True(t, entity.IsUnauthorized(err))
	})

	t.Run("revoked token answers valid false", func(t *testing.T) {
		backend, client := newFixture(t)
		token := backend.IssueToken("ana")
		backend.RevokeToken(token)
		result, err := client.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.False(t, result.Valid)
	})
}

func TestClientTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("create then list round trip", func(t *testing.T) {
		backend, client := newFixture(t)
		token := backend.IssueToken("ana")

		created, err := client.CreateTransaction(ctx, token, draft())
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Lunch", created.Description)
		assert.True(t, created.Amount.Equal(decimal.RequireFromString("25.50")))
		assert.Equal(t, "2025-01-10", created.Date.String())

		listed, err := client.ListTransactions(ctx, token)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, created.ID, listed[0].ID)
	})

	t.Run("list without token is unauthorized", func(t *testing.T) {
		_, client := newFixture(t)
		_, err := client.ListTransactions(ctx, "")
		assert.True(t, entity.IsUnauthorized(err))
	})

	t.Run("delete", func(t *testing.T) {
		backend, client := newFixture(t)
		token := backend.IssueToken("ana")
		created, err := client.CreateTransaction(ctx, token, draft())
		require.NoError(t, err)

		require.NoError(t, client.DeleteTransaction(ctx, token, created.ID))

		// Second delete: the backend no longer knows the id.
		err = client.DeleteTransaction(ctx, token, created.ID)
		var re *entity.RemoteError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, entity.RemoteNotFound, re.Kind)
	})

	t.Run("server error carries the backend message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message": "banco de dados indisponível"}`))
		}))
		t.Cleanup(srv.Close)
		client := NewFinanceAPIClient(srv.URL, srv.Client(), zerolog.Nop())
		token := "any"

		_, err := client.CreateTransaction(ctx, token, draft())
		var re *entity.RemoteError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, entity.RemoteServerError, re.Kind)
		assert.Equal(t, "banco de dados indisponível", re.Message)
	})
}

func TestClientRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		_, client := newFixture(t)
		err := client.Register(ctx, registration("bruno", "bruno@example.com"))
		assert.NoError(t, err)
	})

	t.Run("duplicate username carries the server reason", func(t *testing.T) {
		_, client := newFixture(t)
		err := client.Register(ctx, registration("ana", "other@example.com"))
		var re *entity.RemoteError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "Nome de usuário já está em uso.", re.Message)
	})
}
