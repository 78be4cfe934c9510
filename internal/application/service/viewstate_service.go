package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/financaspro/finance-core/internal/domain/entity"
	"github.com/financaspro/finance-core/internal/domain/repository"
)

// Section identifies one of the UI sections the rendering layer can show.
type Section string

const (
	SectionDashboard    Section = "dashboard"
	SectionTransactions Section = "transactions"
	SectionFAQ          Section = "faq"
)

// Known reports whether s is a defined section.
func (s Section) Known() bool {
	switch s {
	case SectionDashboard, SectionTransactions, SectionFAQ:
		return true
	}
	return false
}

// RequiresAuth reports whether the section is only reachable with an
// active session. FAQ is the one public section.
func (s Section) RequiresAuth() bool {
	return s != SectionFAQ
}

// Theme preference values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ViewState is the single source of truth for what the rendering layer
// should show. It carries no transaction data.
type ViewState struct {
	Authenticated bool
	Section       Section
}

// ViewStateListener is notified after every view-state transition.
type ViewStateListener func(state ViewState)

// ViewStateService is the state machine deciding the active section. It
// reacts to session transitions and to explicit navigation, and owns the
// persisted theme preference.
type ViewStateService struct {
	prefs repository.PreferenceStore
	log   zerolog.Logger

	mu        sync.Mutex
	state     ViewState
	pending   Section
	theme     string
	listeners []ViewStateListener
}

// NewViewStateService creates a coordinator subscribed to the given
// session source. The initial state is Unauthenticated on the public
// section; the theme is restored from the preference store.
func NewViewStateService(sessions SessionSource, prefs repository.PreferenceStore, log zerolog.Logger) *ViewStateService {
	v := &ViewStateService{
		prefs: prefs,
		log:   log.With().Str("component", "viewstate").Logger(),
		state: ViewState{Authenticated: false, Section: SectionFAQ},
		theme: ThemeLight,
	}
	if theme, err := prefs.Theme(); err == nil && theme != "" {
		v.theme = theme
	}
	sessions.Subscribe(v.onSessionChange)
	return v
}

// State returns the current view state.
func (v *ViewStateService) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Subscribe registers a listener for view-state transitions.
func (v *ViewStateService) Subscribe(fn ViewStateListener) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Navigate requests a section. Unknown sections are ignored. While
// unauthenticated, a section that requires auth coerces to the public
// section and is remembered; it becomes the landing section once a
// session is established.
func (v *ViewStateService) Navigate(section Section) ViewState {
	if !section.Known() {
		v.log.Warn().Str("section", string(section)).Msg("ignoring unknown section")
		return v.State()
	}

	v.mu.Lock()
	if !v.state.Authenticated && section.RequiresAuth() {
		v.pending = section
		v.state.Section = SectionFAQ
	} else {
		v.state.Section = section
	}
	state := v.state
	listeners := append([]ViewStateListener(nil), v.listeners...)
	v.mu.Unlock()

	notifyViewState(listeners, state)
	return state
}

// Theme returns the active theme preference.
func (v *ViewStateService) Theme() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.theme
}

// ToggleTheme flips between light and dark and persists the choice.
func (v *ViewStateService) ToggleTheme() string {
	v.mu.Lock()
	if v.theme == ThemeDark {
		v.theme = ThemeLight
	} else {
		v.theme = ThemeDark
	}
	theme := v.theme
	v.mu.Unlock()

	if err := v.prefs.SetTheme(theme); err != nil {
		v.log.Warn().Err(err).Msg("could not persist theme")
	}
	return theme
}

func (v *ViewStateService) onSessionChange(session *entity.Session) {
	v.mu.Lock()
	if session == nil {
		v.state = ViewState{Authenticated: false, Section: SectionFAQ}
	} else {
		section := SectionDashboard
		if v.pending.Known() {
			section = v.pending
			v.pending = ""
		}
		v.state = ViewState{Authenticated: true, Section: section}
	}
	state := v.state
	listeners := append([]ViewStateListener(nil), v.listeners...)
	v.mu.Unlock()

	v.log.Debug().Bool("authenticated", state.Authenticated).Str("section", string(state.Section)).Msg("view state changed")
	notifyViewState(listeners, state)
}

func notifyViewState(listeners []ViewStateListener, state ViewState) {
	for _, fn := range listeners {
		fn(state)
	}
}
