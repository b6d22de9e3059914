package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// nextHandler records whether it ran and which locale it saw.
func nextHandler() (http.Handler, *bool, *Code) {
	var called bool
	var seen Code
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &called, &seen
}

func findCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestMiddlewareRedirects(t *testing.T) {
	s := MustNewSet("ru", "en")

	tests := []struct {
		name         string
		target       string
		cookie       string
		accept       string
		detect       bool
		wantLocation string
		wantCookie   string
	}{
		{"root to default", "/", "", "", false, "/ru", "ru"},
		{"root to cookie locale", "/", "en", "", false, "/en", "en"},
		{"unprefixed page keeps path", "/catalog", "", "", false, "/ru/catalog", "ru"},
		{"query string preserved", "/catalog?material=steel", "en", "", false, "/en/catalog?material=steel", "en"},
		{"malformed cookie ignored", "/", "xx", "", false, "/ru", "ru"},
		{"header ignored when detection off", "/", "", "en", false, "/ru", "ru"},
		{"header used when detection on", "/", "", "en-US,en;q=0.8", true, "/en", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called, _ := nextHandler()
			h := Middleware(s, MiddlewareOptions{DetectLanguage: tt.detect})(next)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if *called {
				t.Error("next handler should not run on redirect")
			}
			if rr.Code != http.StatusTemporaryRedirect {
				t.Errorf("status: got %d, want %d", rr.Code, http.StatusTemporaryRedirect)
			}
			if loc := rr.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location: got %q, want %q", loc, tt.wantLocation)
			}
			c := findCookie(rr)
			if c == nil {
				t.Fatal("locale cookie not set")
			}
			if c.Value != tt.wantCookie {
				t.Errorf("cookie value: got %q, want %q", c.Value, tt.wantCookie)
			}
			if c.MaxAge != cookieMaxAge {
				t.Errorf("cookie MaxAge: got %d, want %d", c.MaxAge, cookieMaxAge)
			}
		})
	}
}

func TestMiddlewarePrefixedPath(t *testing.T) {
	s := MustNewSet("ru", "en")

	t.Run("stores locale in context", func(t *testing.T) {
		next, called, seen := nextHandler()
		h := Middleware(s, MiddlewareOptions{})(next)

		req := httptest.NewRequest(http.MethodGet, "/en/catalog", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "en"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if !*called {
			t.Fatal("next handler should run")
		}
		if *seen != "en" {
			t.Errorf("context locale: got %q, want %q", *seen, "en")
		}
		if findCookie(rr) != nil {
			t.Error("cookie should not be rewritten when it already matches")
		}
		if cl := rr.Header().Get("Content-Language"); cl != "en" {
			t.Errorf("Content-Language: got %q, want %q", cl, "en")
		}
	})

	t.Run("refreshes cookie when path differs", func(t *testing.T) {
		next, _, _ := nextHandler()
		h := Middleware(s, MiddlewareOptions{Secure: true})(next)

		req := httptest.NewRequest(http.MethodGet, "/en", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "ru"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		c := findCookie(rr)
		if c == nil || c.Value != "en" {
			t.Fatalf("cookie: got %+v, want value en", c)
		}
		if !c.Secure {
			t.Error("cookie should be Secure")
		}
	})

	t.Run("canonicalises upper-case prefix", func(t *testing.T) {
		next, called, _ := nextHandler()
		h := Middleware(s, MiddlewareOptions{})(next)

		req := httptest.NewRequest(http.MethodGet, "/EN/catalog", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if *called {
			t.Error("next handler should not run")
		}
		if rr.Code != http.StatusMovedPermanently {
			t.Errorf("status: got %d, want 301", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/en/catalog" {
			t.Errorf("Location: got %q, want %q", loc, "/en/catalog")
		}
	})
}

func TestMiddlewareUnlocalizedPaths(t *testing.T) {
	s := MustNewSet("ru", "en")
	paths := []string{"/health", "/static/css/site.css", "/sitemap.xml", "/robots.txt", "/manifest.webmanifest", "/feed.xml", "/media/datasheets/a.pdf"}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			next, called, _ := nextHandler()
			h := Middleware(s, MiddlewareOptions{})(next)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))

			if !*called {
				t.Error("next handler should run for unlocalized path")
			}
			if findCookie(rr) != nil {
				t.Error("unlocalized path should not set the locale cookie")
			}
		})
	}
}
