package tmdb

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cache keeps detail lookups in process. Search results are not cached.
type cache struct {
	c *gocache.Cache
}

func newCache(ttl time.Duration) *cache {
	return &cache{c: gocache.New(ttl, 2*ttl)}
}

func detailsKey(mediaType string, id int64) string {
	return mediaType + ":" + strconv.FormatInt(id, 10)
}

func (c *cache) getDetails(mediaType string, id int64) (*Details, bool) {
	v, ok := c.c.Get(detailsKey(mediaType, id))
	if !ok {
		return nil, false
	}
	d, ok := v.(*Details)
	return d, ok
}

func (c *cache) setDetails(mediaType string, id int64, d *Details) {
	c.c.SetDefault(detailsKey(mediaType, id), d)
}

func (c *cache) getFind(imdbID string) (*FindResult, bool) {
	v, ok := c.c.Get("find:" + imdbID)
	if !ok {
		return nil, false
	}
	f, ok := v.(*FindResult)
	return f, ok
}

func (c *cache) setFind(imdbID string, f *FindResult) {
	c.c.SetDefault("find:"+imdbID, f)
}

func (c *cache) len() int {
	return c.c.ItemCount()
}
