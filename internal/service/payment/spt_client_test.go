package payment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

func newTestLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(log.PanicLevel)
	return logger
}

func TestSPTClientResolveToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/shared_payment/granted_tokens/spt_abc" {
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("неожиданный заголовок Authorization: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"gt_1","payment_method":"pm_42"}`))
	}))
	defer server.Close()

	client := NewSPTClient(server.URL, "sk_test", newTestLogger())
	method, err := client.ResolveToken(context.Background(), "spt_abc")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if method != "pm_42" {
		t.Errorf("платёжный метод = %s, ожидался pm_42", method)
	}
}

func TestSPTClientResolveTokenBadPrefix(t *testing.T) {
	client := NewSPTClient("http://127.0.0.1:0", "sk_test", newTestLogger())
	_, err := client.ResolveToken(context.Background(), "tok_plain")
	if !errors.Is(err, domain.ErrPaymentFailed) {
		t.Fatalf("ожидалась ErrPaymentFailed, получено: %v", err)
	}
}

func TestSPTClientCapture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("неожиданный запрос: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("разбор формы: %v", err)
		}
		if r.PostForm.Get("amount") != "1500" || r.PostForm.Get("currency") != "usd" {
			t.Errorf("неожиданные параметры: %v", r.PostForm)
		}
		if r.PostForm.Get("confirm") != "true" {
			t.Error("ожидался confirm=true")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_7","status":"succeeded"}`))
	}))
	defer server.Close()

	client := NewSPTClient(server.URL, "sk_test", newTestLogger())
	intent, err := client.Capture(context.Background(), "pm_42", 1500, "usd")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if intent != "pi_7" {
		t.Errorf("интент = %s, ожидался pi_7", intent)
	}
}

func TestSPTClientCaptureProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer server.Close()

	client := NewSPTClient(server.URL, "sk_test", newTestLogger())
	_, err := client.Capture(context.Background(), "pm_42", 1500, "usd")
	if !errors.Is(err, domain.ErrPaymentFailed) {
		t.Fatalf("ожидалась ErrPaymentFailed, получено: %v", err)
	}
}
