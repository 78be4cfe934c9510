package entity

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() TransactionDraft {
	return TransactionDraft{
		Type:        TypeExpense,
		Description: "Lunch",
		Amount:      decimal.RequireFromString("25.50"),
		Category:    "Alimentação",
		Date:        NewDate(2025, 1, 10),
	}
}

func TestDraftValidate(t *testing.T) {
	t.Run("valid draft", func(t *testing.T) {
		draft := validDraft()
		assert.NoError(t, draft.Validate())
	})

	t.Run("empty description", func(t *testing.T) {
		draft := validDraft()
		draft.Description = "   "
		err := draft.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, ValidationEmptyField, ve.Kind)
		assert.Equal(t, "description", ve.Field)
	})

	t.Run("zero amount", func(t *testing.T) {
		draft := validDraft()
		draft.Amount = decimal.Zero
		err := draft.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, ValidationNonPositiveAmount, ve.Kind)
	})

	t.Run("negative amount", func(t *testing.T) {
		draft := validDraft()
		draft.Amount = decimal.RequireFromString("-1")
		err := draft.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, ValidationNonPositiveAmount, ve.Kind)
	})

	t.Run("missing category", func(t *testing.T) {
		draft := validDraft()
		draft.Category = ""
		err := draft.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, ValidationMissingCategory, ve.Kind)
	})

	t.Run("category from the wrong type", func(t *testing.T) {
		draft := validDraft()
		draft.Category = "Salário" // income category on an expense
		err := draft.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, ValidationMissingCategory, ve.Kind)
	})

	t.Run("lowercased wire category accepted", func(t *testing.T) {
		draft := validDraft()
		draft.Category = "alimentação"
		assert.NoError(t, draft.Validate())
	})

	t.Run("missing date", func(t *testing.T) {
		draft := validDraft()
		draft.Date = Date{}
		err := draft.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, ValidationInvalidDate, ve.Kind)
	})

	t.Run("unknown type", func(t *testing.T) {
		draft := validDraft()
		draft.Type = "transfer"
		assert.Error(t, draft.Validate())
	})
}

func TestDateJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		data, err := json.Marshal(NewDate(2025, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, `"2025-01-10"`, string(data))

		var d Date
		require.NoError(t, json.Unmarshal(data, &d))
		assert.Equal(t, "2025-01-10", d.String())
	})

	t.Run("accepts RFC 3339 and drops the time", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2025-01-10T14:30:00Z"`), &d))
		assert.Equal(t, "2025-01-10", d.String())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"10/01/2025"`), &d))
	})
}

func TestCategorySets(t *testing.T) {
	assert.Contains(t, ExpenseCategories, "Alimentação")
	assert.Contains(t, IncomeCategories, "Salário")
	assert.Nil(t, CategoriesFor("transfer"))
	assert.True(t, CategoryAllowed(TypeIncome, "salário"))
	assert.False(t, CategoryAllowed(TypeIncome, "Moradia"))
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("unauthorized detection", func(t *testing.T) {
		err := &RemoteError{Kind: RemoteUnauthorized, StatusCode: 401}
		assert.True(t, IsUnauthorized(err))
		assert.False(t, IsTransient(err))
	})

	t.Run("network failures are transient", func(t *testing.T) {
		assert.True(t, IsTransient(&RemoteError{Kind: RemoteNetworkFailure}))
		assert.True(t, IsTransient(&AuthError{Kind: AuthNetworkFailure}))
		assert.False(t, IsTransient(&AuthError{Kind: AuthInvalidCredentials}))
	})

	t.Run("messages are user readable", func(t *testing.T) {
		err := &RemoteError{Kind: RemoteNetworkFailure}
		assert.Contains(t, err.Error(), "connection")

		withMessage := &RemoteError{Kind: RemoteServerError, Message: "Credenciais inválidas."}
		assert.Equal(t, "Credenciais inválidas.", withMessage.Error())
	})
}
