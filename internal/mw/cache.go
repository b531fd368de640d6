// Package mw holds the gin middleware shared by the HTTP API.
package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// CacheHeader reports whether a response was served from the cache.
const CacheHeader = "X-Cache"

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests for the same URL from store for ttl.
// Only 2xx responses are kept, so upstream failures are retried on the next request.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.String()
		if v, found := store.Get(key); found {
			cached := v.(cachedResponse)
			c.Header(CacheHeader, "HIT")
			c.Data(cached.status, cached.contentType, cached.body)
			c.Abort()
			return
		}

		c.Header(CacheHeader, "MISS")
		w := &bodyCacheWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Next()

		if status := w.Status(); status >= 200 && status < 300 {
			store.Set(key, cachedResponse{
				status:      status,
				contentType: w.Header().Get("Content-Type"),
				body:        w.body.Bytes(),
			}, ttl)
		}
	}
}
