package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shaiso/Operatask/internal/config"
	"github.com/shaiso/Operatask/internal/variables"
)

func newTestClient(url string) *Client {
	return New(config.Config{
		URL:          url,
		ID:           "test-worker",
		LockDuration: 60 * time.Second,
	}, nil)
}

// --- FetchOpenTasks ---

func TestClient_FetchOpenTasks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/engine-rest/external-task" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"id": "t1",
			"activityId": "a1",
			"processInstanceId": "p1",
			"suspended": false,
			"topicName": "orders",
			"priority": 10,
			"businessKey": "bk-1",
			"workerId": null
		}]`))
	}))
	defer server.Close()

	tasks, err := newTestClient(server.URL).FetchOpenTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.ID != "t1" || task.ActivityID != "a1" || task.ProcessInstanceID != "p1" {
		t.Errorf("unexpected task fields: %+v", task)
	}
	if task.TopicName != "orders" || task.Priority != 10 || task.BusinessKey != "bk-1" {
		t.Errorf("unexpected task fields: %+v", task)
	}
}

func TestClient_FetchOpenTasks_BadEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	// Ошибка разбора конверта фатальна только для этого вызова.
	if _, err := newTestClient(server.URL).FetchOpenTasks(context.Background()); err == nil {
		t.Error("expected error for a non-list response")
	}
}

func TestClient_FetchOpenTasks_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchOpenTasks(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.Status)
	}
}

// --- Basic auth ---

func TestClient_BasicAuth(t *testing.T) {
	var gotUser, gotPass string
	var gotAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotAuth = r.BasicAuth()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(config.Config{
		URL:          server.URL,
		ID:           "test-worker",
		Username:     "user",
		Password:     "pass",
		LockDuration: time.Minute,
	}, nil)

	if _, err := c.FetchOpenTasks(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotAuth || gotUser != "user" || gotPass != "pass" {
		t.Errorf("expected basic auth user/pass, got %q/%q (ok=%v)", gotUser, gotPass, gotAuth)
	}
}

func TestClient_NoAuthWhenUsernameEmpty(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchOpenTasks(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header != "" {
		t.Errorf("expected unauthenticated request, got Authorization %q", header)
	}
}

// --- Lock ---

func TestClient_Lock(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/engine-rest/external-task/t1/lock" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := newTestClient(server.URL).Lock(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["workerId"] != "test-worker" {
		t.Errorf("expected workerId test-worker, got %v", body["workerId"])
	}
	if body["lockDuration"] != float64(60000) {
		t.Errorf("expected lockDuration 60000, got %v", body["lockDuration"])
	}
}

func TestClient_Lock_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("already locked"))
	}))
	defer server.Close()

	err := newTestClient(server.URL).Lock(context.Background(), "t1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Body != "already locked" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

// --- FetchVariables ---

func TestClient_FetchVariables(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/engine-rest/variable-instance" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("processInstanceIdIn"); got != "p1" {
			t.Errorf("expected processInstanceIdIn=p1, got %q", got)
		}
		w.Write([]byte(`{"k":{"type":"String","value":"x","valueInfo":{}}}`))
	}))
	defer server.Close()

	vars, err := newTestClient(server.URL).FetchVariables(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := vars.String("k"); !ok || s != "x" {
		t.Errorf("expected k == x, got %q (ok=%v)", s, ok)
	}
}

func TestClient_FetchVariables_DecodeNeverFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"invalid":}`))
	}))
	defer server.Close()

	vars, err := newTestClient(server.URL).FetchVariables(context.Background(), "p1")
	if err != nil {
		t.Fatalf("decode failure should degrade, not fail: %v", err)
	}
	if len(vars) != 0 {
		t.Errorf("expected empty set, got %d variables", len(vars))
	}
}

// --- Отчёты о результате ---

func TestClient_Complete(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/engine-rest/external-task/t1/complete" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	vars := variables.OutVariables{"result": variables.OutString("done")}
	if err := newTestClient(server.URL).Complete(context.Background(), "t1", vars); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["workerId"] != "test-worker" {
		t.Errorf("expected workerId, got %v", body["workerId"])
	}
	sent, ok := body["variables"].(map[string]any)
	if !ok {
		t.Fatalf("variables should be an object, got %T", body["variables"])
	}
	result, ok := sent["result"].(map[string]any)
	if !ok || result["value"] != "done" || result["type"] != "String" {
		t.Errorf("unexpected result variable: %v", sent["result"])
	}
}

func TestClient_Complete_NilVariables(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := newTestClient(server.URL).Complete(context.Background(), "t1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := body["variables"].(map[string]any); !ok {
		t.Errorf("variables should be an empty object, got %v", body["variables"])
	}
}

func TestClient_ReportFailure(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/engine-rest/external-task/t1/failure" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newTestClient(server.URL).ReportFailure(context.Background(), "t1", "handler exploded", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["errorMessage"] != "handler exploded" {
		t.Errorf("expected errorMessage, got %v", body["errorMessage"])
	}
	if body["retries"] != float64(0) {
		t.Errorf("expected retries 0, got %v", body["retries"])
	}
	if body["retryTimeout"] != float64(0) {
		t.Errorf("expected retryTimeout 0, got %v", body["retryTimeout"])
	}
	if _, present := body["errorDetails"]; present {
		t.Error("empty errorDetails should be omitted")
	}
}

func TestClient_ReportBPMNError(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/engine-rest/external-task/t1/bpmnError" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newTestClient(server.URL).ReportBPMNError(context.Background(), "t1", "E1", "stock empty", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["errorCode"] != "E1" {
		t.Errorf("expected errorCode E1, got %v", body["errorCode"])
	}
	if body["errorMessage"] != "stock empty" {
		t.Errorf("expected errorMessage, got %v", body["errorMessage"])
	}
	if _, present := body["variables"]; present {
		t.Error("nil variables should be omitted")
	}
}
