package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	t.Parallel()

	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer srv.Close()

	c := New("AC000", "secret", "whatsapp:+14155238886")
	c.SetBaseURL(srv.URL)

	if err := c.Send(context.Background(), "whatsapp:+573001234567", "ALERTA CRÍTICA"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC000/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUser != "AC000" || gotPass != "secret" {
		t.Errorf("basic auth = %q/%q", gotUser, gotPass)
	}
	if gotTo != "whatsapp:+573001234567" {
		t.Errorf("To = %q", gotTo)
	}
	if gotFrom != "whatsapp:+14155238886" {
		t.Errorf("From = %q", gotFrom)
	}
	if gotBody != "ALERTA CRÍTICA" {
		t.Errorf("Body = %q", gotBody)
	}
}

func TestSend_TwilioError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":20003,"message":"Authenticate"}`))
	}))
	defer srv.Close()

	c := New("AC000", "wrong", "whatsapp:+14155238886")
	c.SetBaseURL(srv.URL)

	if err := c.Send(context.Background(), "whatsapp:+573001234567", "x"); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestSend_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := New("AC000", "secret", "whatsapp:+14155238886")
	c.SetBaseURL(srv.URL)

	if err := c.Send(context.Background(), "whatsapp:+573001234567", "x"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestConfigured(t *testing.T) {
	t.Parallel()

	if New("", "", "whatsapp:+1").Configured() {
		t.Error("channel without account SID must report unconfigured")
	}
	if !New("AC000", "secret", "whatsapp:+1").Configured() {
		t.Error("channel with account SID must report configured")
	}
}

func TestLimit(t *testing.T) {
	t.Parallel()

	if got := New("AC000", "s", "f").Limit(); got != maxBodyLen {
		t.Errorf("Limit() = %d, want %d", got, maxBodyLen)
	}
}
