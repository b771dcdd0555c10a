package auth

import (
	"context"
	"sync"

	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// StatePersister saves a refreshed session, typically into the CLI config.
type StatePersister interface {
	SaveState(target string, state State) error
}

// PersistingAuthenticator wraps a SessionAuthenticator and saves every new
// state it obtains. Persist failures are logged and never fail a request.
type PersistingAuthenticator struct {
	*SessionAuthenticator

	persister StatePersister
	target    string
	logger    concourse.Logger

	mutex     sync.Mutex
	persisted State
}

// NewPersistingAuthenticator wraps session. The state already held by session,
// if any, is treated as persisted.
func NewPersistingAuthenticator(session *SessionAuthenticator, persister StatePersister, target string, logger concourse.Logger) *PersistingAuthenticator {
	if logger == nil {
		logger = nopLogger{}
	}

	p := &PersistingAuthenticator{
		SessionAuthenticator: session,
		persister:            persister,
		target:               target,
		logger:               logger,
	}

	if current := session.State(); current != nil {
		p.persisted = *current
	}

	return p
}

// Intercept authenticates req and persists the state if it changed.
func (p *PersistingAuthenticator) Intercept(ctx context.Context, req *concourse.Request) (*concourse.Request, error) {
	out, err := p.SessionAuthenticator.Intercept(ctx, req)
	if err != nil {
		return nil, err
	}

	p.persistIfChanged()

	return out, nil
}

// GetToken returns a valid access token and persists the state if it changed.
func (p *PersistingAuthenticator) GetToken(ctx context.Context) (string, error) {
	token, err := p.SessionAuthenticator.GetToken(ctx)
	if err != nil {
		return "", err
	}

	p.persistIfChanged()

	return token, nil
}

// RefreshToken forces a refresh and persists the result.
func (p *PersistingAuthenticator) RefreshToken(ctx context.Context) error {
	err := p.SessionAuthenticator.RefreshToken(ctx)
	if err != nil {
		return err
	}

	p.persistIfChanged()

	return nil
}

func (p *PersistingAuthenticator) persistIfChanged() {
	current := p.State()
	if current == nil || p.persister == nil {
		return
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if *current == p.persisted {
		return
	}

	err := p.persister.SaveState(p.target, *current)
	if err != nil {
		p.logger.Warn("failed to persist refreshed session", map[string]interface{}{
			"target": p.target,
			"error":  err.Error(),
		})

		return
	}

	p.persisted = *current
}
