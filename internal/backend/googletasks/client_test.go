package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"todo/internal/task"
)

// fakeAPI is a minimal stand-in for the Google Tasks REST endpoints.
type fakeAPI struct {
	mu       sync.Mutex
	lists    map[string]string // id -> title
	inserted map[string][]map[string]interface{}
	status   int // forced status code for every request when non-zero
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		lists:    make(map[string]string),
		inserted: make(map[string][]map[string]interface{}),
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": f.status, "message": "forced"},
		})
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/users/@me/lists"):
		var items []map[string]string
		for id, title := range f.lists {
			items = append(items, map[string]string{"id": id, "title": title})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"items": items})

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/users/@me/lists"):
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		title, _ := body["title"].(string)
		id := "list-" + strings.ToLower(title)
		f.lists[id] = title
		json.NewEncoder(w).Encode(map[string]string{"id": id, "title": title})

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/tasks"):
		parts := strings.Split(strings.TrimSuffix(path, "/tasks"), "/")
		listID := parts[len(parts)-1]
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.inserted[listID] = append(f.inserted[listID], body)
		json.NewEncoder(w).Encode(map[string]string{"id": "task-id"})

	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client, err := NewWithHTTPClient(context.Background(), server.Client(), server.URL+"/")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestPush_DefaultList(t *testing.T) {
	api := newFakeAPI()
	client := newTestClient(t, api)

	items := []task.Task{
		{Content: "Buy milk", Priority: task.PriorityHigh, DueDate: "2024-01-01"},
		{Content: "Call mom", Priority: task.PriorityLow, Completed: true},
	}
	n, err := client.Push(context.Background(), "", items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 created, got %d", n)
	}

	got := api.inserted[DefaultListID]
	if len(got) != 2 {
		t.Fatalf("expected 2 inserted tasks in default list, got %d (%v)", len(got), api.inserted)
	}
	if got[0]["title"] != "Buy milk" || got[0]["status"] != "needsAction" {
		t.Errorf("unexpected first task %v", got[0])
	}
	if got[0]["notes"] != "Priority: High\nDue: 2024-01-01" {
		t.Errorf("unexpected notes %q", got[0]["notes"])
	}
	if got[1]["status"] != "completed" || got[1]["notes"] != "Priority: Low" {
		t.Errorf("unexpected second task %v", got[1])
	}
}

func TestPush_ExistingNamedList(t *testing.T) {
	api := newFakeAPI()
	api.lists["abc"] = "Errands"
	client := newTestClient(t, api)

	_, err := client.Push(context.Background(), " errands ", []task.Task{{Content: "Post office", Priority: task.PriorityMedium}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.inserted["abc"]) != 1 {
		t.Errorf("expected task in existing list, got %v", api.inserted)
	}
	if len(api.lists) != 1 {
		t.Errorf("expected no new list, got %v", api.lists)
	}
}

func TestPush_CreatesMissingList(t *testing.T) {
	api := newFakeAPI()
	client := newTestClient(t, api)

	_, err := client.Push(context.Background(), "Groceries", []task.Task{{Content: "Bread", Priority: task.PriorityLow}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.lists["list-groceries"] != "Groceries" {
		t.Errorf("expected list to be created, got %v", api.lists)
	}
	if len(api.inserted["list-groceries"]) != 1 {
		t.Errorf("expected task in new list, got %v", api.inserted)
	}
}

func TestPush_AmbiguousList(t *testing.T) {
	api := newFakeAPI()
	api.lists["one"] = "Work"
	api.lists["two"] = "work"
	client := newTestClient(t, api)

	_, err := client.Push(context.Background(), "Work", []task.Task{{Content: "x", Priority: task.PriorityLow}})
	if !errors.Is(err, ErrAmbiguousList) {
		t.Errorf("expected ErrAmbiguousList, got %v", err)
	}
}

func TestPush_AuthError(t *testing.T) {
	api := newFakeAPI()
	api.status = http.StatusUnauthorized
	client := newTestClient(t, api)

	_, err := client.Push(context.Background(), "", []task.Task{{Content: "x", Priority: task.PriorityLow}})
	if !errors.Is(err, ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}
}

func TestRemoteTask(t *testing.T) {
	rt := remoteTask(task.Task{Content: "Pay rent", Priority: task.PriorityMedium, DueDate: "  "})
	if rt.Notes != "Priority: Medium" {
		t.Errorf("expected blank due date to be omitted, got %q", rt.Notes)
	}
	if rt.Status != statusNeedsAction {
		t.Errorf("expected needsAction, got %q", rt.Status)
	}
}

func TestWrapError(t *testing.T) {
	if wrapError(nil) != nil {
		t.Error("expected nil")
	}
	if !errors.Is(wrapError(context.DeadlineExceeded), ErrTimeout) {
		t.Error("expected ErrTimeout")
	}
	if !errors.Is(wrapError(errors.New("googleapi: Error 403: forbidden")), ErrAuth) {
		t.Error("expected ErrAuth")
	}
	other := errors.New("boom")
	if wrapError(other) != other {
		t.Error("expected other errors to pass through")
	}
}
