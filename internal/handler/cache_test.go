package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"eventhub/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestResponseCache_HitAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := newEnv(t, rdb)
	env.locations.Locations[1] = model.Location{ID: 1, MaxCapacity: 100}

	// First read misses, second is served from Redis.
	w := env.do(http.MethodGet, "/api/event", "", "")
	if w.Code != http.StatusOK || w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first read: code = %d, X-Cache = %q", w.Code, w.Header().Get("X-Cache"))
	}
	w = env.do(http.MethodGet, "/api/event", "", "")
	if w.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second read: X-Cache = %q, want HIT", w.Header().Get("X-Cache"))
	}

	// A write purges the cached event surface.
	if w := env.do(http.MethodPost, "/api/event", draftBody, env.authToken(t, 7)); w.Code != http.StatusCreated {
		t.Fatalf("create: code = %d, body = %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, "/api/event", "", "")
	if w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("post-write read: X-Cache = %q, want MISS", w.Header().Get("X-Cache"))
	}
	var events []model.Event
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %+v, want the fresh record", events)
	}
}

func TestResponseCache_SkipsNonGet(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := newEnv(t, rdb)
	env.locations.Locations[1] = model.Location{ID: 1, MaxCapacity: 100}

	w := env.do(http.MethodPost, "/api/event", draftBody, env.authToken(t, 7))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: code = %d", w.Code)
	}
	if got := w.Header().Get("X-Cache"); got != "" {
		t.Fatalf("write tagged with X-Cache = %q", got)
	}
}
