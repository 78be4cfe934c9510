package service

import (
	"context"

	"github.com/financaspro/finance-core/internal/domain/entity"
)

// LoginResult is the backend's answer to a successful credential check.
type LoginResult struct {
	Token string
	User  entity.User
}

// VerifyResult is the backend's answer to a token verification request.
// Valid=false with a nil error is an explicit rejection, not a transport
// failure.
type VerifyResult struct {
	Valid bool
	User  entity.User
}

// Registration carries the fields required to create a new account.
type Registration struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// FinanceAPI defines the contract with the remote backend. Implementations
// translate transport and status failures into the entity error taxonomy;
// callers never see raw HTTP errors.
type FinanceAPI interface {
	// Login exchanges credentials for a token and user identity.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Register creates a new account. Field validation happens before the
	// call; the backend may still reject duplicate usernames or emails.
	Register(ctx context.Context, reg Registration) error

	// VerifyToken asks whether the token is still accepted.
	VerifyToken(ctx context.Context, token string) (*VerifyResult, error)

	// ListTransactions fetches the caller's full transaction collection.
	ListTransactions(ctx context.Context, token string) ([]entity.Transaction, error)

	// CreateTransaction submits a draft and returns the canonical
	// transaction with its server-assigned ID.
	CreateTransaction(ctx context.Context, token string, draft entity.TransactionDraft) (*entity.Transaction, error)

	// DeleteTransaction removes a transaction by ID.
	DeleteTransaction(ctx context.Context, token string, id string) error
}
