package state

import (
	"sync"

	"github.com/whaleprotocol/watchdesk/internal/i18n"
)

// LocaleState resolves and persists each visitor's locale with change
// notification. Dependents re-resolve per request rather than capturing a
// value.
type LocaleState struct {
	store *Store

	mu   sync.Mutex
	subs []func(visitor string, locale i18n.Locale)
}

// NewLocaleState wraps a preference store.
func NewLocaleState(store *Store) *LocaleState {
	return &LocaleState{store: store}
}

// Resolve returns the visitor's locale: persisted choice, then the visitor's
// Accept-Language header matched by primary subtag, then the default.
func (ls *LocaleState) Resolve(visitor, acceptLanguage string) i18n.Locale {
	if saved := ls.store.Locale(visitor); saved != "" {
		return i18n.Parse(saved)
	}
	return i18n.MatchAcceptLanguage(acceptLanguage)
}

// Set coerces code to a supported locale, persists it for the visitor
// immediately, and notifies subscribers. It returns the locale actually
// applied.
func (ls *LocaleState) Set(visitor, code string) i18n.Locale {
	locale := i18n.Parse(code)

	// Persistence failure must not block the locale switch.
	_ = ls.store.SetLocale(visitor, string(locale))

	ls.mu.Lock()
	subs := make([]func(string, i18n.Locale), len(ls.subs))
	copy(subs, ls.subs)
	ls.mu.Unlock()

	for _, fn := range subs {
		fn(visitor, locale)
	}
	return locale
}

// Subscribe registers fn to run after every locale change.
func (ls *LocaleState) Subscribe(fn func(visitor string, locale i18n.Locale)) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.subs = append(ls.subs, fn)
}
