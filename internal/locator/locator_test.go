package locator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocateFindsFirmwareLink(t *testing.T) {
	srv := servePage(t, `<html><body>
		<a href="/support/3d">Support</a>
		<a href="/dl/a3d_os_v2.1.bin">Download [52.3MB]</a>
	</body></html>`)

	rel, err := Locate(context.Background(), srv.Client(), srv.URL+"/support/3d/firmware/latest")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := srv.URL + "/dl/a3d_os_v2.1.bin"; rel.URL != want {
		t.Errorf("URL = %s, want %s", rel.URL, want)
	}
	if rel.Filename != "a3d_os_v2.1.bin" {
		t.Errorf("Filename = %s, want a3d_os_v2.1.bin", rel.Filename)
	}
}

func TestLocateResolvesAbsoluteHref(t *testing.T) {
	srv := servePage(t, `<html><body>
		<a href="https://cdn.example.com/fw/a3d_os_v3.0.bin">Download [48.0MB]</a>
	</body></html>`)

	rel, err := Locate(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := "https://cdn.example.com/fw/a3d_os_v3.0.bin"; rel.URL != want {
		t.Errorf("URL = %s, want %s", rel.URL, want)
	}
}

func TestLocateFallsBackToLinkText(t *testing.T) {
	// href gives no filename hint; the "Download [NN.NMB]" text does
	srv := servePage(t, `<html><body>
		<a href="/assets/latest">Release notes</a>
		<a href="/assets/9f31c2">Download [51.8MB]</a>
	</body></html>`)

	rel, err := Locate(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := srv.URL + "/assets/9f31c2"; rel.URL != want {
		t.Errorf("URL = %s, want %s", rel.URL, want)
	}
}

func TestLocateNoLink(t *testing.T) {
	srv := servePage(t, `<html><body>
		<p>Firmware temporarily unavailable.</p>
		<a href="/support">Back to support</a>
	</body></html>`)

	_, err := Locate(context.Background(), srv.Client(), srv.URL)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if !strings.Contains(perr.Error(), srv.URL) {
		t.Errorf("error should name the page URL, got: %s", perr.Error())
	}
}

func TestLocateNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Locate(context.Background(), srv.Client(), srv.URL)
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if serr.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want %d", serr.Code, http.StatusNotFound)
	}
}

func TestLocateUnreachableHost(t *testing.T) {
	srv := servePage(t, "")
	srv.Close()

	if _, err := Locate(context.Background(), http.DefaultClient, srv.URL); err == nil {
		t.Fatal("expected error for unreachable host")
	}
}

func TestFindDownloadHref(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{
			name: "firmware href wins over earlier anchors",
			html: `<a href="/a">a</a><a href="/fw/a3d_os_v1.bin">x</a>`,
			want: "/fw/a3d_os_v1.bin",
			ok:   true,
		},
		{
			name: "href with query string",
			html: `<a href="/fw/a3d_os_v1.bin?token=abc">x</a>`,
			want: "/fw/a3d_os_v1.bin?token=abc",
			ok:   true,
		},
		{
			name: "nested text fallback",
			html: `<a href="/assets/1"><span>Download [50.1MB]</span></a>`,
			want: "/assets/1",
			ok:   true,
		},
		{
			name: "plain download word is not enough",
			html: `<a href="/assets/1">Download now</a>`,
		},
		{
			name: "anchor without href ignored",
			html: `<a name="top">Download [50.1MB]</a>`,
		},
		{
			name: "empty page",
			html: ``,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := findDownloadHref(strings.NewReader(tc.html))
			if err != nil {
				t.Fatalf("findDownloadHref: %v", err)
			}
			if ok != tc.ok || got != tc.want {
				t.Errorf("findDownloadHref = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}
