package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/financaspro/finance-core/internal/domain/entity"
	domainsvc "github.com/financaspro/finance-core/internal/domain/service"
)

const (
	defaultTimeout = 10 * time.Second

	loginPath        = "/api/auth/login"
	registerPath     = "/api/auth/register"
	verifyPath       = "/api/auth/verify"
	transactionsPath = "/api/transactions"
)

// maxGetAttempts bounds the retry loop for idempotent requests. Mutating
// requests are never retried; a duplicate POST would duplicate the
// transaction.
const maxGetAttempts = 3

// FinanceAPIClient implements the FinanceAPI interface over the backend's
// JSON REST contract.
type FinanceAPIClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ domainsvc.FinanceAPI = (*FinanceAPIClient)(nil)

// NewFinanceAPIClient creates a client for the given base URL. A nil
// httpClient gets a default with a sane timeout.
func NewFinanceAPIClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *FinanceAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &FinanceAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log.With().Str("component", "api").Logger(),
	}
}

// Login exchanges credentials for a token. Remote failures are translated
// into the AuthError taxonomy so the UI can tell wrong credentials from an
// unreachable server.
func (c *FinanceAPIClient) Login(ctx context.Context, username, password string) (*domainsvc.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	data, err := c.do(ctx, http.MethodPost, loginPath, "", body)
	if err != nil {
		return nil, asAuthError(err)
	}

	var parsed struct {
		Token string      `json:"token"`
		User  entity.User `json:"user"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || parsed.Token == "" {
		c.log.Warn().Err(err).Msg("login response missing token")
		return nil, &entity.AuthError{
			Kind:    entity.AuthMalformedResponse,
			Message: "the server returned an unexpected login response",
			Err:     err,
		}
	}
	return &domainsvc.LoginResult{Token: parsed.Token, User: parsed.User}, nil
}

// Register creates a new account. Rejections (duplicate username or email)
// come back as RemoteError carrying the server's reason.
func (c *FinanceAPIClient) Register(ctx context.Context, reg domainsvc.Registration) error {
	body := map[string]string{
		"firstName": reg.FirstName,
		"lastName":  reg.LastName,
		"username":  reg.Username,
		"email":     reg.Email,
		"password":  reg.Password,
	}
	_, err := c.do(ctx, http.MethodPost, registerPath, "", body)
	return err
}

// VerifyToken asks the backend whether the token is still accepted.
func (c *FinanceAPIClient) VerifyToken(ctx context.Context, token string) (*domainsvc.VerifyResult, error) {
	data, err := c.do(ctx, http.MethodGet, verifyPath, token, nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Valid bool        `json:"valid"`
		User  entity.User `json:"user"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &entity.RemoteError{
			Kind:    entity.RemoteServerError,
			Message: "the server returned an unexpected verification response",
			Err:     err,
		}
	}
	return &domainsvc.VerifyResult{Valid: parsed.Valid, User: parsed.User}, nil
}

// ListTransactions fetches the full transaction collection.
func (c *FinanceAPIClient) ListTransactions(ctx context.Context, token string) ([]entity.Transaction, error) {
	data, err := c.do(ctx, http.MethodGet, transactionsPath, token, nil)
	if err != nil {
		return nil, err
	}

	var transactions []entity.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, &entity.RemoteError{
			Kind:    entity.RemoteServerError,
			Message: "the server returned an unexpected transaction list",
			Err:     err,
		}
	}
	return transactions, nil
}

// CreateTransaction submits a draft and returns the canonical transaction
// with its server-assigned ID.
func (c *FinanceAPIClient) CreateTransaction(ctx context.Context, token string, draft entity.TransactionDraft) (*entity.Transaction, error) {
	data, err := c.do(ctx, http.MethodPost, transactionsPath, token, draft)
	if err != nil {
		return nil, err
	}

	var created entity.Transaction
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, &entity.RemoteError{
			Kind:    entity.RemoteServerError,
			Message: "the server returned an unexpected transaction response",
			Err:     err,
		}
	}
	return &created, nil
}

// DeleteTransaction removes a transaction by ID. A 404 surfaces as
// RemoteNotFound; the store treats that as an idempotent success.
func (c *FinanceAPIClient) DeleteTransaction(ctx context.Context, token string, id string) error {
	_, err := c.do(ctx, http.MethodDelete, transactionsPath+"/"+id, token, nil)
	return err
}

// do executes one request and maps transport and status failures into the
// RemoteError taxonomy. Idempotent GETs are retried a bounded number of
// times with backoff on transport failure only; an HTTP status, even 5xx,
// is a definitive answer and is not retried.
func (c *FinanceAPIClient) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = maxGetAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, &entity.RemoteError{Kind: entity.RemoteNetworkFailure, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warn().Err(err).Str("method", method).Str("path", path).
				Int("attempt", attempt).Msg("request failed")
			lastErr = &entity.RemoteError{
				Kind:    entity.RemoteNetworkFailure,
				Message: "could not reach the server, check your connection",
				Err:     err,
			}
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.Warn().Err(closeErr).Msg("error closing response body")
		}
		if readErr != nil {
			lastErr = &entity.RemoteError{
				Kind:    entity.RemoteNetworkFailure,
				Message: "could not reach the server, check your connection",
				Err:     readErr,
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}
		return nil, c.statusError(resp.StatusCode, data)
	}
	return nil, lastErr
}

func (c *FinanceAPIClient) statusError(status int, body []byte) error {
	message := serverMessage(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &entity.RemoteError{Kind: entity.RemoteUnauthorized, StatusCode: status, Message: message}
	case status == http.StatusNotFound:
		return &entity.RemoteError{Kind: entity.RemoteNotFound, StatusCode: status, Message: message}
	default:
		return &entity.RemoteError{Kind: entity.RemoteServerError, StatusCode: status, Message: message}
	}
}

// serverMessage extracts the backend's {"message": ...} error payload.
func serverMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Message
}

// asAuthError translates the remote taxonomy into the auth taxonomy for
// the login path.
func asAuthError(err error) error {
	var re *entity.RemoteError
	if !errors.As(err, &re) {
		return err
	}
	switch re.Kind {
	case entity.RemoteUnauthorized:
		message := re.Message
		if message == "" {
			message = "incorrect username or password"
		}
		return &entity.AuthError{Kind: entity.AuthInvalidCredentials, Message: message, Err: re}
	case entity.RemoteNetworkFailure:
		return &entity.AuthError{
			Kind:    entity.AuthNetworkFailure,
			Message: "could not reach the server, check your connection",
			Err:     re,
		}
	default:
		if re.StatusCode == http.StatusBadRequest {
			message := re.Message
			if message == "" {
				message = "incorrect username or password"
			}
			return &entity.AuthError{Kind: entity.AuthInvalidCredentials, Message: message, Err: re}
		}
		return &entity.AuthError{
			Kind:    entity.AuthNetworkFailure,
			Message: "the server failed to process the request, try again later",
			Err:     re,
		}
	}
}
