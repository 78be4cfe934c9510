package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/financaspro/finance-core/internal/domain/entity"
	domainsvc "github.com/financaspro/finance-core/internal/domain/service"
)

// ErrNotAuthenticated is returned by mutating store operations invoked
// without an active session.
var ErrNotAuthenticated = errors.New("sign in to manage transactions")

// StoreListener is notified after every change to the mirrored collection.
type StoreListener func()

// StoreService mirrors the user's remote transactions. The mirror only
// ever contains what the backend last confirmed; there is no optimistic
// insertion. Mutating operations are serialized per instance so an add
// racing a reload cannot lose updates.
type StoreService struct {
	api      domainsvc.FinanceAPI
	sessions SessionSource
	log      zerolog.Logger

	// opMu serializes remote mutations end to end; mu guards the mirror
	// so reads never block on the network.
	opMu sync.Mutex
	mu   sync.Mutex

	byID      map[string]entity.Transaction
	listeners []StoreListener
}

// NewStoreService creates a transaction store bound to a session source.
// The mirror empties itself whenever the session goes away.
func NewStoreService(api domainsvc.FinanceAPI, sessions SessionSource, log zerolog.Logger) *StoreService {
	s := &StoreService{
		api:      api,
		sessions: sessions,
		log:      log.With().Str("component", "store").Logger(),
		byID:     make(map[string]entity.Transaction),
	}
	sessions.Subscribe(func(session *entity.Session) {
		if session == nil {
			s.reset()
		}
	})
	return s
}

// Subscribe registers a listener for collection changes.
func (s *StoreService) Subscribe(fn StoreListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load replaces the mirror wholesale from the backend. Without an active
// session it deterministically returns an empty collection and makes no
// remote call.
func (s *StoreService) Load(ctx context.Context) ([]entity.Transaction, error) {
	session := s.sessions.Current()
	if session == nil {
		s.reset()
		return []entity.Transaction{}, nil
	}
	gen := s.sessions.Generation()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	transactions, err := s.api.ListTransactions(ctx, session.Token)
	if err != nil {
		if entity.IsUnauthorized(err) {
			s.sessions.ForceLogout()
		}
		return nil, err
	}
	if s.sessions.Generation() != gen {
		return nil, entity.ErrStaleOperation
	}

	byID := make(map[string]entity.Transaction, len(transactions))
	for _, tx := range transactions {
		byID[tx.ID] = tx
	}

	s.mu.Lock()
	s.byID = byID
	listeners := append([]StoreListener(nil), s.listeners...)
	s.mu.Unlock()

	s.log.Debug().Int("count", len(byID)).Msg("collection reloaded")
	notifyStore(listeners)
	return s.Snapshot(), nil
}

// Add validates the draft locally, submits it, and inserts the canonical
// transaction returned by the backend. The local draft is discarded in
// favor of the server's representation so IDs can never diverge.
func (s *StoreService) Add(ctx context.Context, draft entity.TransactionDraft) (*entity.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	session := s.sessions.Current()
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	gen := s.sessions.Generation()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	created, err := s.api.CreateTransaction(ctx, session.Token, draft)
	if err != nil {
		if entity.IsUnauthorized(err) {
			s.sessions.ForceLogout()
		}
		return nil, err
	}
	if s.sessions.Generation() != gen {
		return nil, entity.ErrStaleOperation
	}
	if created.ID == "" {
		return nil, &entity.RemoteError{Kind: entity.RemoteServerError,
			Message: "the server accepted the transaction but returned no id"}
	}

	s.mu.Lock()
	s.byID[created.ID] = *created
	listeners := append([]StoreListener(nil), s.listeners...)
	s.mu.Unlock()

	s.log.Info().Str("id", created.ID).Str("type", string(created.Type)).Msg("transaction added")
	notifyStore(listeners)

	copied := *created
	return &copied, nil
}

// Remove deletes a transaction by ID. Deleting an ID the backend no longer
// knows, or one absent from the mirror, is a successful no-op.
func (s *StoreService) Remove(ctx context.Context, id string) error {
	session := s.sessions.Current()
	if session == nil {
		return ErrNotAuthenticated
	}
	gen := s.sessions.Generation()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.api.DeleteTransaction(ctx, session.Token, id); err != nil {
		var re *entity.RemoteError
		if errors.As(err, &re) && re.Kind == entity.RemoteNotFound {
			// Already gone remotely; fall through and drop any local copy.
		} else {
			if entity.IsUnauthorized(err) {
				s.sessions.ForceLogout()
			}
			return err
		}
	}
	if s.sessions.Generation() != gen {
		return entity.ErrStaleOperation
	}

	s.mu.Lock()
	_, existed := s.byID[id]
	delete(s.byID, id)
	listeners := append([]StoreListener(nil), s.listeners...)
	s.mu.Unlock()

	if existed {
		s.log.Info().Str("id", id).Msg("transaction removed")
		notifyStore(listeners)
	}
	return nil
}

// Snapshot returns the mirrored collection sorted newest first, with ID as
// a tiebreaker so the order is deterministic.
func (s *StoreService) Snapshot() []entity.Transaction {
	s.mu.Lock()
	transactions := make([]entity.Transaction, 0, len(s.byID))
	for _, tx := range s.byID {
		transactions = append(transactions, tx)
	}
	s.mu.Unlock()

	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date.Time) {
			return transactions[j].Date.Before(transactions[i].Date)
		}
		return transactions[i].ID < transactions[j].ID
	})
	return transactions
}

// Len returns the number of mirrored transactions.
func (s *StoreService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *StoreService) reset() {
	s.mu.Lock()
	changed := len(s.byID) > 0
	s.byID = make(map[string]entity.Transaction)
	listeners := append([]StoreListener(nil), s.listeners...)
	s.mu.Unlock()

	if changed {
		notifyStore(listeners)
	}
}

func notifyStore(listeners []StoreListener) {
	for _, fn := range listeners {
		fn()
	}
}
