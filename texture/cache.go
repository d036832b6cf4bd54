package texture

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// Cache keeps recently used textures open so repeated frames of an
// animation do not reload them. Evicted textures are closed.
type Cache struct {
	mu    sync.Mutex
	cache *lru.Cache // path -> Texture
}

func NewCache(size int) (*Cache, error) {
	c, err := lru.NewWithEvict(size, func(_, value interface{}) {
		value.(Texture).Close()
	})
	if err != nil {
		return nil, err
	}
	return &Cache{cache: c}, nil
}

// Get returns the texture at path, loading it on first use.
func (c *Cache) Get(path string) (Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.cache.Get(path); ok {
		return v.(Texture), nil
	}
	t, err := Load(path)
	if err != nil {
		return Texture{}, err
	}
	c.cache.Add(path, t)
	return t, nil
}

func (c *Cache) Len() int {
	return c.cache.Len()
}

// Purge closes and drops every cached texture.
func (c *Cache) Purge() {
	c.cache.Purge()
}
