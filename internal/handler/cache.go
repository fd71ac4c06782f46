package handler

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/gob"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// cachedBody is the gob-encoded shape of a cached response.
type cachedBody struct {
	Status int
	Header map[string][]string
	Body   []byte
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// cacheKeyFor namespaces event GETs into list and item keys so writes
// can purge them wholesale. Non-GETs and unrelated paths are never
// cached.
func cacheKeyFor(r *http.Request) string {
	if r.Method != http.MethodGet {
		return ""
	}
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/event/"):
		return "cache:events:item:" + sha1Hex("GET|"+path)
	case path == "/api/event":
		return "cache:events:list:" + sha1Hex("GET|"+path+"|"+r.URL.RawQuery)
	default:
		return ""
	}
}

// ResponseCache serves 2xx event GET responses out of Redis for ttl.
// Cache misses fall through to the real handler and store its response
// on the way out; the X-Cache header reports HIT or MISS.
func ResponseCache(rdb *redis.Client, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cacheKeyFor(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if b, err := rdb.Get(r.Context(), key).Bytes(); err == nil && len(b) > 0 {
				var hit cachedBody
				if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&hit); err == nil {
					for k, vals := range hit.Header {
						for _, v := range vals {
							w.Header().Add(k, v)
						}
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(hit.Status)
					_, _ = w.Write(hit.Body)
					return
				}
			}

			bw := &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
			bw.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(bw, r)

			if bw.status >= 200 && bw.status < 300 {
				item := cachedBody{
					Status: bw.status,
					Header: bw.Header().Clone(),
					Body:   bw.buf.Bytes(),
				}
				var o bytes.Buffer
				if err := gob.NewEncoder(&o).Encode(item); err == nil {
					_ = rdb.Set(context.Background(), key, o.Bytes(), ttl).Err()
				}
			}
		})
	}
}

// bufferedWriter tees the response body into memory so it can be stored
// after the handler returns.
type bufferedWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *bufferedWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheInvalidator purges cached event responses after a write. A nil
// invalidator is a no-op so the cache stays optional.
type CacheInvalidator struct {
	rdb *redis.Client
}

// NewCacheInvalidator constructs a CacheInvalidator.
func NewCacheInvalidator(rdb *redis.Client) *CacheInvalidator {
	return &CacheInvalidator{rdb: rdb}
}

// PurgeEvents deletes every cached event list and item. Item keys are
// sha1-hashed so a per-id purge is not possible; the event surface is
// small enough that a full purge is fine.
func (ci *CacheInvalidator) PurgeEvents(ctx context.Context) {
	if ci == nil || ci.rdb == nil {
		return
	}
	for _, pattern := range []string{"cache:events:list:*", "cache:events:item:*"} {
		iter := ci.rdb.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			_ = ci.rdb.Del(ctx, iter.Val()).Err()
		}
	}
}
