package netzone

import lru "github.com/hashicorp/golang-lru/v2"

// RouteCache bounds repeated LCA + bypass-table lookups on hot routes in
// large topologies, wrapping GetGlobalRoute with an LRU cache keyed by the
// (src, dst) NetPoint name pair. Routes are immutable once a zone is
// sealed, so cached entries never need invalidation within a run.
type RouteCache struct {
	cache *lru.Cache[bypassKey, *Route]
}

// NewRouteCache returns a cache holding up to size resolved routes.
func NewRouteCache(size int) *RouteCache {
	c, _ := lru.New[bypassKey, *Route](size)
	return &RouteCache{cache: c}
}

// Resolve returns the route between src and dst, computing and caching it
// on first lookup.
func (rc *RouteCache) Resolve(src, dst *NetPoint) (*Route, error) {
	key := bypassKey{src.Name, dst.Name}
	if r, ok := rc.cache.Get(key); ok {
		return cloneRoute(r), nil
	}
	r, err := GetGlobalRoute(src, dst)
	if err != nil {
		return nil, err
	}
	rc.cache.Add(key, r)
	return cloneRoute(r), nil
}
