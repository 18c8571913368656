package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/anjiri1684/coded/configs"
	"github.com/anjiri1684/coded/logger"
)

func TestNewEmailServiceRequiresConfig(t *testing.T) {
	if s := NewEmailService(&config.Config{BrevoAPIKey: "k"}, logger.Nop()); s != nil {
		t.Fatal("partial config should disable email")
	}
	var s *BrevoService
	s.SendEmail("x", "x@example.com", "s", "b")
}

func TestSendPostsBrevoPayload(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewEmailService(&config.Config{BrevoAPIKey: "key", EmailSender: "hi@coded.dev", EmailSenderName: "CodEd"}, logger.Nop())
	s.endpoint = srv.URL

	if err := s.send(context.Background(), "ada@example.com", "", "Welcome", "<p>hi</p>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if apiKey != "key" || got.Subject != "Welcome" || got.To[0]["name"] != "ada" || got.Sender["email"] != "hi@coded.dev" {
		t.Fatalf("payload = %+v (api key %q)", got, apiKey)
	}

	if err := s.send(context.Background(), "not-an-email", "", "x", "y"); err == nil {
		t.Fatal("expected invalid recipient error")
	}
}
