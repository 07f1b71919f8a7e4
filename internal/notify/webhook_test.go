package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsEvent(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL)
	err := hook.Send(context.Background(), Event{Type: "pyos.request.created", Message: "hi", Data: map[string]interface{}{"request_id": 7}})
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != "pyos.request.created" || got.Data["request_id"] != float64(7) || got.SentAt.IsZero() {
		t.Fatalf("event = %+v", got)
	}
}

func TestSendReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	if err := NewWebhook(srv.URL).Send(context.Background(), Event{Type: "x"}); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestDisabledWebhook(t *testing.T) {
	var hook *Webhook
	if hook.Enabled() || NewWebhook("") != nil {
		t.Fatal("empty url must disable the webhook")
	}
	if err := hook.Send(context.Background(), Event{Type: "x"}); err != nil {
		t.Fatal(err)
	}
	hook.Notify(Event{Type: "x"})
}
