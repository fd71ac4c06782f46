package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventhub/internal/handler"
	"eventhub/internal/mocks"
	"eventhub/internal/model"
	"eventhub/internal/service"
	"eventhub/internal/token"

	"github.com/redis/go-redis/v9"
)

type testEnv struct {
	router      http.Handler
	events      *mocks.EventStore
	locations   *mocks.LocationStore
	enrollments *mocks.EnrollmentStore
	users       *mocks.UserStore
	tokens      *token.Manager
}

func newEnv(t *testing.T, rdb *redis.Client) *testEnv {
	t.Helper()

	events := mocks.NewEventStore()
	locations := mocks.NewLocationStore()
	enrollments := mocks.NewEnrollmentStore()
	users := mocks.NewUserStore()
	tokens := token.NewManager("test-secret", time.Hour)

	var invalidator *handler.CacheInvalidator
	if rdb != nil {
		invalidator = handler.NewCacheInvalidator(rdb)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Events: handler.NewEventHandler(
			service.NewEventService(events, locations),
			service.NewEnrollmentService(events, enrollments),
			invalidator,
		),
		Users:     handler.NewUserHandler(service.NewUserService(users), tokens),
		Locations: handler.NewLocationHandler(service.NewLocationService(locations)),
		Tokens:    tokens,
		Cache:     rdb,
		CacheTTL:  time.Minute,
	})

	return &testEnv{
		router:      router,
		events:      events,
		locations:   locations,
		enrollments: enrollments,
		users:       users,
		tokens:      tokens,
	}
}

func (env *testEnv) authToken(t *testing.T, userID int64) string {
	t.Helper()
	signed, err := env.tokens.Issue(userID, "tester")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return signed
}

func (env *testEnv) do(method, path, body, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	env.router.ServeHTTP(w, req)
	return w
}

const draftBody = `{
	"name": "Conference",
	"description": "Annual conf",
	"start_date": "2030-01-01T10:00:00Z",
	"duration_in_minutes": 60,
	"price": 0,
	"enabled_for_enrollment": true,
	"max_assistance": 50,
	"id_event_location": 1
}`

func TestAuthRequired(t *testing.T) {
	env := newEnv(t, nil)

	if w := env.do(http.MethodPost, "/api/event", draftBody, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: code = %d, want 401", w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/event", strings.NewReader(draftBody))
	req.Header.Set("Authorization", "token-without-scheme")
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header: code = %d, want 401", w.Code)
	}

	if w := env.do(http.MethodPost, "/api/event", draftBody, "bogus"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: code = %d, want 401", w.Code)
	}
}

func TestCreateEvent(t *testing.T) {
	env := newEnv(t, nil)
	env.locations.Locations[1] = model.Location{ID: 1, MaxCapacity: 100}

	w := env.do(http.MethodPost, "/api/event", draftBody, env.authToken(t, 7))
	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}

	var created model.Event
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CreatorUserID != 7 {
		t.Fatalf("creator = %d, want token user 7", created.CreatorUserID)
	}
}

func TestCreateEvent_CapacityExceeded(t *testing.T) {
	env := newEnv(t, nil)
	env.locations.Locations[1] = model.Location{ID: 1, MaxCapacity: 5}

	w := env.do(http.MethodPost, "/api/event", draftBody, env.authToken(t, 7))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400; body = %s", w.Code, w.Body.String())
	}
}

func TestListEvents_EmptyArray(t *testing.T) {
	env := newEnv(t, nil)

	w := env.do(http.MethodGet, "/api/event", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want empty array", got)
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	env := newEnv(t, nil)

	if w := env.do(http.MethodGet, "/api/event/999", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", w.Code)
	}
}

func TestUpdateEvent_NotOwner(t *testing.T) {
	env := newEnv(t, nil)
	env.locations.Locations[1] = model.Location{ID: 1, MaxCapacity: 100}
	env.events.Seed(model.Event{ID: 1, Name: "Conference", Description: "Annual conf",
		MaxAssistance: 50, CreatorUserID: 7, LocationID: 1})

	body := strings.Replace(draftBody, "{", `{"id": 1,`, 1)
	w := env.do(http.MethodPut, "/api/event", body, env.authToken(t, 99))
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404; body = %s", w.Code, w.Body.String())
	}
}

func TestEnrollmentFlow(t *testing.T) {
	env := newEnv(t, nil)
	env.events.Seed(model.Event{ID: 1, Name: "Event A",
		StartDate:            time.Now().Add(24 * time.Hour),
		EnabledForEnrollment: true,
		MaxAssistance:        2,
	})

	user1 := env.authToken(t, 1)

	if w := env.do(http.MethodPost, "/api/event/1/enrollment", "", user1); w.Code != http.StatusCreated {
		t.Fatalf("enroll: code = %d, body = %s", w.Code, w.Body.String())
	}
	if w := env.do(http.MethodPost, "/api/event/1/enrollment", "", user1); w.Code != http.StatusConflict {
		t.Fatalf("duplicate enroll: code = %d, want 409", w.Code)
	}
	if w := env.do(http.MethodPost, "/api/event/1/enrollment", "", env.authToken(t, 2)); w.Code != http.StatusCreated {
		t.Fatalf("user 2 enroll: code = %d", w.Code)
	}
	if w := env.do(http.MethodPost, "/api/event/1/enrollment", "", env.authToken(t, 3)); w.Code != http.StatusConflict {
		t.Fatalf("full event: code = %d, want 409", w.Code)
	}

	if w := env.do(http.MethodDelete, "/api/event/1/enrollment", "", user1); w.Code != http.StatusNoContent {
		t.Fatalf("unenroll: code = %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/event/1/enrollment", "", user1); w.Code != http.StatusBadRequest {
		t.Fatalf("repeat unenroll: code = %d, want 400", w.Code)
	}
}

func TestEnroll_PastEvent(t *testing.T) {
	env := newEnv(t, nil)
	env.events.Seed(model.Event{ID: 1, Name: "Event A",
		StartDate:            time.Now().Add(-time.Hour),
		EnabledForEnrollment: true,
		MaxAssistance:        10,
	})

	w := env.do(http.MethodPost, "/api/event/1/enrollment", "", env.authToken(t, 1))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400; body = %s", w.Code, w.Body.String())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv(t, nil)

	register := `{"first_name":"Ada","last_name":"Lovelace","username":"ada","password":"s3cret"}`
	if w := env.do(http.MethodPost, "/api/user/register", register, ""); w.Code != http.StatusCreated {
		t.Fatalf("register: code = %d, body = %s", w.Code, w.Body.String())
	}

	w := env.do(http.MethodPost, "/api/user/login", `{"username":"ada","password":"s3cret"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: code = %d, body = %s", w.Code, w.Body.String())
	}
	var resp model.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := env.tokens.Verify(resp.Token); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}

	if w := env.do(http.MethodPost, "/api/user/login", `{"username":"ada","password":"wrong"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: code = %d, want 401", w.Code)
	}
}

func TestLocations_OwnerScoped(t *testing.T) {
	env := newEnv(t, nil)
	env.locations.Locations[1] = model.Location{ID: 1, Name: "Club A", MaxCapacity: 50, CreatorUserID: 7}
	env.locations.Locations[2] = model.Location{ID: 2, Name: "Club B", MaxCapacity: 80, CreatorUserID: 8}

	w := env.do(http.MethodGet, "/api/event-location", "", env.authToken(t, 7))
	if w.Code != http.StatusOK {
		t.Fatalf("list: code = %d", w.Code)
	}
	var locations []model.Location
	if err := json.Unmarshal(w.Body.Bytes(), &locations); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(locations) != 1 || locations[0].ID != 1 {
		t.Fatalf("locations = %+v, want only own", locations)
	}

	// Someone else's location is indistinguishable from a missing one.
	if w := env.do(http.MethodGet, "/api/event-location/2", "", env.authToken(t, 7)); w.Code != http.StatusNotFound {
		t.Fatalf("foreign location: code = %d, want 404", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/event-location/1", "", env.authToken(t, 7)); w.Code != http.StatusOK {
		t.Fatalf("own location: code = %d, want 200", w.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newEnv(t, nil)
	if w := env.do(http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
}
