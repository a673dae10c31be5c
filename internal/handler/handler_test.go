package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"eventful/internal/auth"
	"eventful/internal/service"
	"eventful/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "eventful-handler-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	locks := service.NewEventLocks()

	router := NewRouter(Handlers{
		Auth:      NewAuthHandler(auth.NewPasswordAuthenticator(store), jwtManager),
		Groups:    NewGroupHandler(service.NewGroupService(store)),
		Events:    NewEventHandler(service.NewEventService(store)),
		Schedules: NewScheduleHandler(service.NewScheduleService(store, locks)),
		Votes:     NewVoteHandler(service.NewVoteService(store, locks)),
	}, jwtManager)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// doJSON sends a JSON request and decodes the response body into out when
// out is non-nil.
func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func registerMember(t *testing.T, server *httptest.Server, nickname string) (token, memberID string) {
	t.Helper()
	var resp struct {
		Token    string `json:"token"`
		MemberID string `json:"member_id"`
	}
	status := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    nickname + "@example.com",
		"nickname": nickname,
		"password": "long enough password",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d", nickname, status)
	}
	return resp.Token, resp.MemberID
}

func TestPlanningFlow(t *testing.T) {
	server := setupTestServer(t)

	leaderToken, _ := registerMember(t, server, "leader")
	memberToken, _ := registerMember(t, server, "member")

	// Leader creates a group; the join password is returned exactly once.
	var group struct {
		ID           string `json:"id"`
		JoinCode     string `json:"join_code"`
		JoinPassword string `json:"join_password"`
	}
	status := doJSON(t, server, http.MethodPost, "/api/groups", leaderToken, map[string]string{
		"name":        "Hikers",
		"description": "Weekend circle",
	}, &group)
	if status != http.StatusCreated {
		t.Fatalf("create group: status %d", status)
	}
	if group.JoinPassword == "" {
		t.Fatal("expected join password in creation response")
	}
	if len(group.JoinCode) != 8 {
		t.Errorf("join code length: got %d, want 8", len(group.JoinCode))
	}

	// The second member joins with the password.
	status = doJSON(t, server, http.MethodPost, "/api/groups/"+group.ID+"/join", memberToken,
		map[string]string{"password": group.JoinPassword}, nil)
	if status != http.StatusNoContent {
		t.Fatalf("join group: status %d", status)
	}

	// Wrong password is forbidden.
	status = doJSON(t, server, http.MethodPost, "/api/groups/"+group.ID+"/join", memberToken,
		map[string]string{"password": "wrong"}, nil)
	if status != http.StatusForbidden {
		t.Errorf("join with wrong password: status %d, want 403", status)
	}

	// Leader creates an event; member joins it.
	var event struct {
		ID string `json:"id"`
	}
	status = doJSON(t, server, http.MethodPost, "/api/groups/"+group.ID+"/events", leaderToken, map[string]any{
		"name":        "Ridge hike",
		"description": "Day hike",
		"date":        "2026-09-12",
	}, &event)
	if status != http.StatusCreated {
		t.Fatalf("create event: status %d", status)
	}
	status = doJSON(t, server, http.MethodPost, "/api/events/"+event.ID+"/join", memberToken, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("join event: status %d", status)
	}

	// A schedule occupies [09:00,11:00); an overlapping one conflicts.
	var schedule struct {
		ID string `json:"id"`
	}
	status = doJSON(t, server, http.MethodPost, "/api/events/"+event.ID+"/schedules", leaderToken, map[string]string{
		"name":       "Morning hike",
		"start_time": "09:00",
		"end_time":   "11:00",
		"location":   "Trailhead",
	}, &schedule)
	if status != http.StatusCreated {
		t.Fatalf("create schedule: status %d", status)
	}
	status = doJSON(t, server, http.MethodPost, "/api/events/"+event.ID+"/schedules", leaderToken, map[string]string{
		"name":       "Brunch",
		"start_time": "10:00",
		"end_time":   "12:00",
		"location":   "Cafe",
	}, nil)
	if status != http.StatusConflict {
		t.Errorf("overlapping schedule: status %d, want 409", status)
	}

	// A vote in a free range, a ballot, then close-and-convert.
	var vote struct {
		ID      string `json:"id"`
		Options []struct {
			ID           string `json:"id"`
			LocationName string `json:"location_name"`
		} `json:"options"`
	}
	status = doJSON(t, server, http.MethodPost, "/api/events/"+event.ID+"/votes", leaderToken, map[string]any{
		"name":             "Dinner spot",
		"start_time":       "18:00",
		"end_time":         "20:00",
		"location_options": []string{"Cafe", "Park"},
	}, &vote)
	if status != http.StatusCreated {
		t.Fatalf("create vote: status %d", status)
	}

	status = doJSON(t, server, http.MethodPost, "/api/votes/"+vote.ID+"/ballots", memberToken,
		map[string]string{"option_id": vote.Options[1].ID}, nil)
	if status != http.StatusNoContent {
		t.Fatalf("cast ballot: status %d", status)
	}

	// A plain member may not close the vote.
	status = doJSON(t, server, http.MethodPost, "/api/votes/"+vote.ID+"/close", memberToken, nil, nil)
	if status != http.StatusForbidden {
		t.Errorf("close by member: status %d, want 403", status)
	}

	var converted struct {
		Location string `json:"location"`
	}
	status = doJSON(t, server, http.MethodPost, "/api/votes/"+vote.ID+"/close", leaderToken, nil, &converted)
	if status != http.StatusCreated {
		t.Fatalf("close vote: status %d", status)
	}
	if converted.Location != "Park" {
		t.Errorf("converted location: got %q, want %q", converted.Location, "Park")
	}

	// Casting into the closed vote conflicts with its state.
	status = doJSON(t, server, http.MethodPost, "/api/votes/"+vote.ID+"/ballots", memberToken,
		map[string]string{"option_id": vote.Options[0].ID}, nil)
	if status != http.StatusConflict {
		t.Errorf("ballot after close: status %d, want 409", status)
	}
}

func TestAuthRequired(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/groups"},
		{http.MethodGet, "/api/events/some-id"},
		{http.MethodPost, "/api/votes/some-id/ballots"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", resp.StatusCode)
			}
		})
	}

	t.Run("health check is open", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/healthz")
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status: got %d, want 200", resp.StatusCode)
		}
	})
}
