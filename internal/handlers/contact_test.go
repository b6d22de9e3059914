package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"promsnab/internal/contact"
	"promsnab/internal/locale"
)

func TestContactPage(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    []string
		notWant []string
	}{
		{"plain form", "/ru/contact", []string{`name="website"`, `action="/ru/contact"`}, []string{"notice"}},
		{"sent flag", "/ru/contact?status=sent", []string{"Спасибо! Ваша заявка отправлена."}, nil},
		{"error flag", "/en/contact?status=error", []string{"We could not send your request."}, nil},
		{"unknown flag ignored", "/en/contact?status=%3Cscript%3E", nil, []string{"notice", "<script>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := do(env.Public.ContactPage, request(http.MethodGet, tt.target, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d", rec.Code)
			}
			if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
				t.Errorf("Cache-Control: got %q, want no-store", cc)
			}
			if env.Cache.sets != 0 {
				t.Error("contact page must not be cached")
			}
			assertContains(t, rec.Body.String(), tt.want...)
			assertNotContains(t, rec.Body.String(), tt.notWant...)
		})
	}
}

func TestContactSubmit(t *testing.T) {
	valid := url.Values{
		"name":    {"Иван Петров"},
		"email":   {"ivan@example.com"},
		"message": {"Нужен лист 10 мм, 5 тонн."},
		"consent": {"yes"},
	}

	tests := []struct {
		name     string
		path     string
		err      error
		wantLoc  string
		wantSent int
	}{
		{"accepted", "/ru/contact", nil, "/ru/contact?status=sent", 1},
		{"validation failure", "/ru/contact", fmt.Errorf("%w: name", contact.ErrInvalid), "/ru/contact?status=error", 1},
		{"honeypot", "/en/contact", contact.ErrSpam, "/en/contact?status=error", 1},
		{"transport failure", "/en/contact", errors.New("smtp: 451"), "/en/contact?status=error", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.Submitter.err = tt.err

			req := request(http.MethodPost, tt.path, nil)
			req.Body = formBody(valid.Encode())
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := do(env.Public.ContactSubmit, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location: got %q, want %q", loc, tt.wantLoc)
			}
			if env.Submitter.sent != tt.wantSent {
				t.Errorf("submissions: got %d, want %d", env.Submitter.sent, tt.wantSent)
			}
		})
	}
}

func TestContactSubmitPassesForm(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{
		"name":    {"Jane"},
		"phone":   {"+7 (495) 123-45-67"},
		"message": {"Please call me back."},
		"consent": {"on"},
		"website": {""},
	}
	req := request(http.MethodPost, "/en/contact", nil)
	req.Body = formBody(form.Encode())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	do(env.Public.ContactSubmit, req)

	got := env.Submitter.got
	if got.Name != "Jane" || got.Phone != "+7 (495) 123-45-67" || !got.Consent {
		t.Errorf("form: got %+v", got)
	}
	if got.Locale != locale.Code("en") {
		t.Errorf("locale: got %q, want en", got.Locale)
	}
}

func TestContactSubmitMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	req := request(http.MethodPost, "/ru/contact", nil)
	req.Body = formBody("message=%zz&name=" + strings.Repeat("a", 10))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(env.Public.ContactSubmit, req)

	if loc := rec.Header().Get("Location"); loc != "/ru/contact?status=error" {
		t.Errorf("Location: got %q", loc)
	}
	if env.Submitter.sent != 0 {
		t.Error("malformed body should not reach the mailer")
	}
}

// formBody wraps an encoded form as a request body.
func formBody(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}
