package httputil

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStandardClientWrapsCustomClient(t *testing.T) {
	custom := &http.Client{}
	client := NewStandardClient(custom)
	if client.Client != custom {
		t.Error("expected custom client to be wrapped")
	}
}

func TestStandardClientNilDefaults(t *testing.T) {
	client := NewStandardClient(nil)
	if client.Client != http.DefaultClient {
		t.Error("nil client should fall back to http.DefaultClient")
	}
}

func TestStandardClientPost(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"exercise":"squat"}` {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := NewStandardClient(nil)
	resp, err := client.Post(ts.URL, "application/json", strings.NewReader(`{"exercise":"squat"}`))
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
}

func TestMockClientReplaysQueuedResponses(t *testing.T) {
	mock := NewMockHTTPClient()
	mock.QueueResponse(http.StatusCreated, `{"id":"abc"}`)
	mock.QueueResponse(http.StatusBadRequest, `{"error":"session already finished"}`)

	resp, err := mock.Post("http://server/api/sessions", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || string(body) != `{"id":"abc"}` {
		t.Errorf("first response = %d %s", resp.StatusCode, body)
	}

	resp, err = mock.Post("http://server/api/sessions/abc/finish", "application/json", nil)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("second response = %d, want 400", resp.StatusCode)
	}
}

func TestMockClientDefaultsToEmptyOK(t *testing.T) {
	mock := NewMockHTTPClient()
	resp, err := mock.Post("http://server/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMockClientQueueError(t *testing.T) {
	mock := NewMockHTTPClient()
	mock.QueueError(errors.New("connection refused"))

	if _, err := mock.Post("http://server/api/sessions", "application/json", nil); err == nil {
		t.Error("expected transport error")
	}
}

func TestMockClientRecordsRequests(t *testing.T) {
	mock := NewMockHTTPClient()

	resp, err := mock.Post("http://server/api/sessions/abc/frames", "application/json",
		strings.NewReader(`[{"index":0}]`))
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	resp.Body.Close()

	if mock.RequestCount() != 1 {
		t.Fatalf("RequestCount = %d, want 1", mock.RequestCount())
	}
	req := mock.Request(0)
	if req == nil || req.URL.Path != "/api/sessions/abc/frames" {
		t.Errorf("recorded request = %+v", req)
	}
	if got := mock.RequestBody(0); got != `[{"index":0}]` {
		t.Errorf("recorded body = %s", got)
	}
	if mock.Request(1) != nil {
		t.Error("out-of-range request should be nil")
	}
	if mock.RequestBody(5) != "" {
		t.Error("out-of-range body should be empty")
	}
}

func TestMockClientDo(t *testing.T) {
	mock := NewMockHTTPClient()
	mock.QueueResponse(http.StatusOK, "ok")

	req, err := http.NewRequest(http.MethodPost, "http://server/api/sessions/abc/finish", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := mock.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.Request != req {
		t.Error("response should reference the originating request")
	}
}
