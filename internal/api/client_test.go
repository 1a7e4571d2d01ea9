package api

import (
	"errors"
	"strings"
	"testing"

	"github.com/strideworks/form.report/internal/engine"
	"github.com/strideworks/form.report/internal/httputil"
)

func TestClientCreateSession(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.QueueResponse(201, `{"id":"abc-123","exercise":"squat"}`)

	client := NewClient("http://server:8080/", mock)
	id, err := client.CreateSession("squat")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if id != "abc-123" {
		t.Errorf("id = %q, want abc-123", id)
	}

	req := mock.Request(0)
	if req == nil || req.URL.String() != "http://server:8080/api/sessions" {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestClientCreateSessionServerError(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.QueueResponse(400, `{"error":"unknown exercise: \"jazzercise\""}`)

	client := NewClient("http://server:8080", mock)
	_, err := client.CreateSession("jazzercise")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "unknown exercise") {
		t.Errorf("error should carry server message, got %v", err)
	}
}

func TestClientPostFrames(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.QueueResponse(200, `{"frames_processed":2,"completed_reps":[{"rep":1,"start_frame":3,"end_frame":9,"characteristics":{},"errors":null}]}`)

	client := NewClient("http://server:8080", mock)
	reps, err := client.PostFrames("abc-123", []engine.FrameSample{{Index: 0}, {Index: 1}})
	if err != nil {
		t.Fatalf("PostFrames failed: %v", err)
	}
	if len(reps) != 1 || reps[0].Rep != 1 {
		t.Errorf("reps = %+v", reps)
	}

	req := mock.Request(0)
	if req == nil || !strings.HasSuffix(req.URL.Path, "/api/sessions/abc-123/frames") {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestClientFinish(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.QueueResponse(200, `{"exercise":"squat","rep_count":1,"classification":"good_depth"}`)

	client := NewClient("http://server:8080", mock)
	report, err := client.Finish("abc-123")
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if report.Classification != "good_depth" || report.RepCount != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestClientTransportError(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.QueueError(errors.New("connection refused"))

	client := NewClient("http://server:8080", mock)
	if _, err := client.CreateSession("squat"); err == nil {
		t.Error("expected transport error")
	}
}
