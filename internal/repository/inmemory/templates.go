package inmemory

import (
	"sync"
	"time"

	templatesdomain "packlist-go/internal/domain/templates"
)

type InMemoryTemplateCache struct {
	mu       sync.RWMutex
	defaults *templateItem
	now      func() time.Time
}

type templateItem struct {
	value     []templatesdomain.Template
	expiresAt time.Time
}

func NewInMemoryTemplateCache() *InMemoryTemplateCache {
	return &InMemoryTemplateCache{now: time.Now}
}

func (c *InMemoryTemplateCache) GetDefaults() ([]templatesdomain.Template, bool) {
	now := c.now()

	c.mu.RLock()
	item := c.defaults
	c.mu.RUnlock()
	if item == nil {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		if c.defaults == item {
			c.defaults = nil
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneTemplates(item.value), true
}

func (c *InMemoryTemplateCache) SetDefaults(templates []templatesdomain.Template, ttl time.Duration) {
	if ttl <= 0 {
		c.InvalidateDefaults()
		return
	}

	c.mu.Lock()
	c.defaults = &templateItem{
		value:     cloneTemplates(templates),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryTemplateCache) InvalidateDefaults() {
	c.mu.Lock()
	c.defaults = nil
	c.mu.Unlock()
}

// cloneTemplates copies item slices so callers may sort them freely.
func cloneTemplates(templates []templatesdomain.Template) []templatesdomain.Template {
	if templates == nil {
		return []templatesdomain.Template{}
	}

	result := make([]templatesdomain.Template, len(templates))
	for i, tpl := range templates {
		items := make([]templatesdomain.Item, len(tpl.Items))
		copy(items, tpl.Items)
		tpl.Items = items
		result[i] = tpl
	}
	return result
}
