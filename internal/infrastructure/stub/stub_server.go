// Package stub provides an in-memory implementation of the backend API
// contract. It backs local development (cmd/stubserver) and the API client
// integration tests; it is not the production backend.
package stub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/financaspro/finance-core/internal/domain/entity"
)

type account struct {
	user     entity.User
	password string
}

// Server holds the in-memory users, tokens and transactions.
type Server struct {
	log zerolog.Logger

	mu      sync.Mutex
	users   map[string]*account // keyed by username
	emails  map[string]bool
	tokens  map[string]string // token -> username
	revoked map[string]bool
	txs     map[string]map[string]entity.Transaction // username -> id -> tx
}

// NewServer creates an empty stub backend.
func NewServer(log zerolog.Logger) *Server {
	return &Server{
		log:     log.With().Str("component", "stub").Logger(),
		users:   make(map[string]*account),
		emails:  make(map[string]bool),
		tokens:  make(map[string]string),
		revoked: make(map[string]bool),
		txs:     make(map[string]map[string]entity.Transaction),
	}
}

// Router returns the API routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify", s.handleVerify).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions/{id}", s.handleDelete).Methods(http.MethodDelete)
	return r
}

// SeedUser registers an account directly, bypassing the HTTP surface.
// Intended for tests and local dev setup.
func (s *Server) SeedUser(firstName, lastName, username, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &account{
		user: entity.User{
			ID:        uuid.New().String(),
			Username:  username,
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
		},
		password: password,
	}
	s.emails[email] = true
	s.txs[username] = make(map[string]entity.Transaction)
}

// IssueToken mints a valid token for an existing user.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.New().String()
	s.tokens[token] = username
	return token
}

// RevokeToken marks a token as no longer valid. Verification of a revoked
// token answers {valid:false} rather than 401, mirroring backends that
// distinguish expiry from a missing token.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requisição inválida.")
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "Todos os campos são obrigatórios.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		writeMessage(w, http.StatusConflict, "Nome de usuário já está em uso.")
		return
	}
	if s.emails[req.Email] {
		writeMessage(w, http.StatusConflict, "Email já está em uso.")
		return
	}
	s.users[req.Username] = &account{
		user: entity.User{
			ID:        uuid.New().String(),
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		},
		password: req.Password,
	}
	s.emails[req.Email] = true
	s.txs[req.Username] = make(map[string]entity.Transaction)

	s.log.Info().Str("username", req.Username).Msg("user registered")
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Usuário registrado com sucesso."})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requisição inválida.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[req.Username]
	if !ok || acct.password != req.Password {
		writeMessage(w, http.StatusUnauthorized, "Credenciais inválidas.")
		return
	}

	token := uuid.New().String()
	s.tokens[token] = req.Username

	s.log.Info().Str("username", req.Username).Msg("login accepted")
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  acct.user,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, "Token não fornecido.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	username, known := s.tokens[token]
	if !known {
		writeMessage(w, http.StatusUnauthorized, "Token inválido ou expirado.")
		return
	}
	if s.revoked[token] {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  s.users[username].user,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	username, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	transactions := make([]entity.Transaction, 0, len(s.txs[username]))
	for _, tx := range s.txs[username] {
		transactions = append(transactions, tx)
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	username, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var draft entity.TransactionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requisição inválida.")
		return
	}
	if !draft.Type.Valid() || strings.TrimSpace(draft.Description) == "" ||
		draft.Amount.Cmp(decimal.Zero) <= 0 || draft.Category == "" || draft.Date.IsZero() {
		writeMessage(w, http.StatusBadRequest, "Dados da transação inválidos.")
		return
	}

	created := entity.Transaction{
		ID:          uuid.New().String(),
		Type:        draft.Type,
		Description: draft.Description,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Date:        draft.Date,
	}

	s.mu.Lock()
	s.txs[username][created.ID] = created
	s.mu.Unlock()

	s.log.Info().Str("username", username).Str("id", created.ID).Msg("transaction created")
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	username, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.txs[username][id]; !exists {
		writeMessage(w, http.StatusNotFound, "Transação não encontrada.")
		return
	}
	delete(s.txs[username], id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// authenticate resolves the bearer token to a username, writing a 401 on
// failure. Revoked tokens are rejected here: only verify reports them as
// {valid:false}.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	username, known := s.tokens[token]
	if token == "" || !known || s.revoked[token] {
		writeMessage(w, http.StatusUnauthorized, "Token inválido ou expirado.")
		return "", false
	}
	return username, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
