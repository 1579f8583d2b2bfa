package phrasing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

const completionBody = `{
	"id": "cmpl-1",
	"object": "chat.completion",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "- Nice description.\nWhat changes with Valsalva?"}, "finish_reason": "stop"}
	]
}`

func TestGenerate(t *testing.T) {
	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	c := New(ts.URL+"/v1", "test-key", "test-model", time.Second)
	got, err := c.Generate(context.Background(), "instructions", "blob")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := "- Nice description.\nWhat changes with Valsalva?"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerateServerError(t *testing.T) {
	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "insufficient_quota"}}`, http.StatusTooManyRequests)
	})

	c := New(ts.URL+"/v1", "test-key", "test-model", time.Second)
	_, err := c.Generate(context.Background(), "instructions", "blob")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-2", "object": "chat.completion", "choices": []}`))
	})

	c := New(ts.URL+"/v1", "test-key", "test-model", time.Second)
	_, err := c.Generate(context.Background(), "instructions", "blob")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	c := New(ts.URL+"/v1", "test-key", "test-model", 30*time.Millisecond)
	start := time.Now()
	_, err := c.Generate(context.Background(), "instructions", "blob")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Errorf("call took %v, the timeout did not bound it", elapsed)
	}
}

func TestNewDefaultTimeout(t *testing.T) {
	c := New("", "key", "model", 0)
	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want DefaultTimeout", c.timeout)
	}
}
