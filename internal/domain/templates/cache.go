package templates

import "time"

// Cache holds the default template catalog, which is the same for every user.
type Cache interface {
	GetDefaults() ([]Template, bool)
	SetDefaults(templates []Template, ttl time.Duration)
	InvalidateDefaults()
}

type noopCache struct{}

func (noopCache) GetDefaults() ([]Template, bool) {
	return nil, false
}

func (noopCache) SetDefaults([]Template, time.Duration) {}

func (noopCache) InvalidateDefaults() {}
