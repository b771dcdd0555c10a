package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

// ConfigPersister implements the auth.StatePersister interface over the
// CLI config file.
type ConfigPersister struct {
	mutex sync.Mutex
	path  string
	now   func() time.Time
}

// NewConfigPersister creates a new config persister for the file at path.
func NewConfigPersister(path string) *ConfigPersister {
	return &ConfigPersister{path: path, now: time.Now}
}

// SaveState stores a refreshed session on the named target. The file is read
// again first so changes made by other invocations are kept.
func (p *ConfigPersister) SaveState(target string, state auth.State) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config, err := loadConfigFile(p.path)
	if err != nil {
		return err
	}

	saved, ok := config.Targets[target]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrTargetNotFound, target)
	}

	saved.Session = &state

	refreshed := p.now()
	saved.LastRefreshed = &refreshed

	return saveConfigFile(p.path, config)
}

var _ auth.StatePersister = (*ConfigPersister)(nil)
