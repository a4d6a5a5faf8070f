package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

const testListBody = `{
	"success": true,
	"data": [
		{"_id": "a1", "applicationId": "APP-1", "submittedAt": "2024-05-10T10:00:00Z"},
		{"_id": "a2", "applicationId": "APP-2", "submittedAt": "2024-05-11T10:00:00Z"},
		{"_id": "a3", "applicationId": "APP-3", "submittedAt": "2024-05-12T10:00:00Z"}
	]
}`

func newTestConsole(t *testing.T, handler http.HandlerFunc) *Console {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewConsole(newTestClient(server.URL))
}

func listAndDeleteHandler(deleteSucceeds bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			if deleteSucceeds {
				io.WriteString(w, `{"success": true}`)
			} else {
				io.WriteString(w, `{"success": false}`)
			}
			return
		}
		io.WriteString(w, testListBody)
	}
}

func TestConsoleRefresh(t *testing.T) {
	console := newTestConsole(t, listAndDeleteHandler(true))

	if console.Loaded() {
		t.Error("Expected Loaded()=false before first fetch")
	}

	if err := console.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !console.Loaded() {
		t.Error("Expected Loaded()=true after fetch")
	}
	apps := console.Applications()
	if len(apps) != 3 {
		t.Fatalf("Expected 3 applications, got %d", len(apps))
	}
	if apps[1].ApplicationID != "APP-2" {
		t.Errorf("Expected fetch order preserved, got %s second", apps[1].ApplicationID)
	}
}

func TestConsoleRefreshFailureKeepsSnapshot(t *testing.T) {
	fail := false
	console := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			io.WriteString(w, `{"success": false}`)
			return
		}
		io.WriteString(w, testListBody)
	})

	if err := console.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	fail = true
	if err := console.Refresh(context.Background()); err == nil {
		t.Error("Expected error from failed refresh")
	}

	if len(console.Applications()) != 3 {
		t.Error("Expected previous snapshot to survive a failed refresh")
	}
}

func TestConsoleInvalidate(t *testing.T) {
	console := newTestConsole(t, listAndDeleteHandler(true))

	if err := console.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	console.Invalidate()

	if console.Loaded() {
		t.Error("Expected Loaded()=false after Invalidate")
	}
	if len(console.Applications()) != 0 {
		t.Error("Expected empty snapshot after Invalidate")
	}
}

func TestConsoleDeleteMiddleRecord(t *testing.T) {
	console := newTestConsole(t, listAndDeleteHandler(true))

	if err := console.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := console.Delete(context.Background(), "APP-2"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	apps := console.Applications()
	if len(apps) != 2 {
		t.Fatalf("Expected 2 applications after delete, got %d", len(apps))
	}
	if apps[0].ApplicationID != "APP-1" || apps[1].ApplicationID != "APP-3" {
		t.Errorf("Expected APP-1 and APP-3 to remain, got %s and %s", apps[0].ApplicationID, apps[1].ApplicationID)
	}
}

func TestConsoleDeleteFailureLeavesState(t *testing.T) {
	console := newTestConsole(t, listAndDeleteHandler(false))

	if err := console.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := console.Delete(context.Background(), "APP-2"); err == nil {
		t.Error("Expected error from failed delete")
	}

	if len(console.Applications()) != 3 {
		t.Error("Expected snapshot unchanged after failed delete")
	}
}

func TestConsoleDeleteInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	console := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			<-release
			io.WriteString(w, `{"success": true}`)
			return
		}
		io.WriteString(w, testListBody)
	})

	if err := console.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := console.Delete(context.Background(), "APP-1"); err != nil {
			t.Errorf("Unexpected error from first delete: %v", err)
		}
	}()

	// Wait for the first delete to register as in flight.
	deadline := time.After(2 * time.Second)
	for !console.Deleting("APP-1") {
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for delete to start")
		case <-time.After(time.Millisecond):
		}
	}

	if err := console.Delete(context.Background(), "APP-1"); !errors.Is(err, ErrDeleteInFlight) {
		t.Errorf("Expected ErrDeleteInFlight for concurrent delete of same id, got %v", err)
	}

	if ids := console.DeletingIDs(); !ids["APP-1"] {
		t.Error("Expected APP-1 to be reported as deleting")
	}

	close(release)
	wg.Wait()

	if console.Deleting("APP-1") {
		t.Error("Expected deleting flag cleared after completion")
	}
	if _, found := console.Find("APP-1"); found {
		t.Error("Expected APP-1 removed after successful delete")
	}
}

func TestConsoleFind(t *testing.T) {
	console := newTestConsole(t, listAndDeleteHandler(true))

	if err := console.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	app, found := console.Find("APP-2")
	if !found {
		t.Fatal("Expected to find APP-2")
	}
	if app.ID != "a2" {
		t.Errorf("Expected internal id a2, got %s", app.ID)
	}

	if _, found := console.Find("APP-99"); found {
		t.Error("Expected APP-99 not to be found")
	}
}
