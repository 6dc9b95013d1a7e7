package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/debthin/debthin/internal/config"
	"github.com/debthin/debthin/internal/ecosystem"
	"github.com/debthin/debthin/internal/server"
	"github.com/debthin/debthin/internal/storage"
)

func testApp(t *testing.T, store storage.Store) *fiber.App {
	t.Helper()

	set, err := ecosystem.NewSet([]config.EcosystemConfig{
		{
			Name:          "debian",
			Upstream:      "deb.debian.org/debian",
			Components:    []string{"main"},
			Architectures: []string{"amd64", "all"},
			TrustAssets:   []string{"archive-keyring.gpg"},
			Aliases:       map[string]string{"stable": "trixie"},
			Primary:       true,
		},
	})
	if err != nil {
		t.Fatalf("build set: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Gateway:    NewHandler(set, store, logger, time.Hour),
		ListenPort: 5000,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestHandleServesVerbatimWithHeaders(t *testing.T) {
	store := storage.NewMemory()
	store.Put("debian/dists/trixie/InRelease", []byte(
		"Origin: debthin\nSuite: trixie\n",
	), "")
	app := testApp(t, store)

	resp := doRequest(t, app, "GET", "http://mirror.local/dists/trixie/InRelease")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "public, max-age=3600" {
		t.Fatalf("Cache-Control = %q", got)
	}
	if got := resp.Header.Get("X-Debthin-Source"); got != "verbatim" {
		t.Fatalf("source header = %q", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Origin: debthin\nSuite: trixie\n" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHandleAliasResolvesBeforeLookup(t *testing.T) {
	store := storage.NewMemory()
	store.Put("debian/dists/trixie/InRelease", []byte("Origin: debthin\n"), "")
	app := testApp(t, store)

	// stable 是 trixie 的滚动别名；存储中只有 codename 键。
	resp := doRequest(t, app, "GET", "http://mirror.local/dists/stable/InRelease")
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("alias lookup failed with status %d", resp.StatusCode)
	}
}

func TestHandleRecognizedMissIsNotFound(t *testing.T) {
	app := testApp(t, storage.NewMemory())

	// 已识别的套件树模式缺失时必须 404，绝不能重定向。
	for _, path := range []string{
		"/dists/trixie/Release",
		"/dists/trixie/InRelease",
		"/dists/trixie/main/binary-amd64/Packages",
		"/dists/trixie/main/binary-amd64/Packages.gz",
		"/archive-keyring.gpg",
	} {
		resp := doRequest(t, app, "GET", "http://mirror.local"+path)
		if resp.StatusCode != fiber.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", path, resp.StatusCode)
		}
		if resp.Header.Get("Location") != "" {
			t.Fatalf("%s: recognized miss must not redirect", path)
		}
		resp.Body.Close()
	}
}

func TestHandleSynthesizedArchRelease(t *testing.T) {
	// 合成路径完全不依赖存储内容。
	app := testApp(t, storage.NewMemory())

	resp := doRequest(t, app, "GET", "http://mirror.local/dists/trixie/main/binary-amd64/Release")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Debthin-Source"); got != "synthesized" {
		t.Fatalf("source header = %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Archive: trixie\nComponent: main\nArchitecture: amd64\n" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHandleRedirectPreservesQueryAndScheme(t *testing.T) {
	app := testApp(t, storage.NewMemory())

	resp := doRequest(t, app, "GET", "http://mirror.local/pool/main/a/apt/apt_2.6.1_amd64.deb?ts=1")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", resp.StatusCode)
	}
	want := "http://deb.debian.org/debian/pool/main/a/apt/apt_2.6.1_amd64.deb?ts=1"
	if got := resp.Header.Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestHandleDecodeFailureIsBadGateway(t *testing.T) {
	store := storage.NewMemory()
	store.Put("debian/dists/trixie/main/binary-amd64/Packages.gz", []byte("corrupt"), "")
	app := testApp(t, store)

	resp := doRequest(t, app, "GET", "http://mirror.local/dists/trixie/main/binary-amd64/Packages")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("corrupt stream should be 502, got %d", resp.StatusCode)
	}
}

func TestHandleHeadOmitsBody(t *testing.T) {
	store := storage.NewMemory()
	store.Put("debian/index.html", []byte("<html></html>"), "text/html; charset=utf-8")
	app := testApp(t, store)

	resp := doRequest(t, app, "HEAD", "http://mirror.local/")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Fatalf("HEAD must not carry a body, got %q", body)
	}
}
