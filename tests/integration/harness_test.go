package integration

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"github.com/debthin/debthin/internal/config"
	"github.com/debthin/debthin/internal/ecosystem"
	"github.com/debthin/debthin/internal/gateway"
	"github.com/debthin/debthin/internal/server"
	"github.com/debthin/debthin/internal/server/routes"
	"github.com/debthin/debthin/internal/storage"
)

// signedInRelease mimics the clear-signed manifest layout published by real
// archives. 脱签后应只剩 Origin 起始的正文。
const signedInRelease = "-----BEGIN PGP SIGNED MESSAGE-----\n" +
	"Hash: SHA256\n" +
	"\n" +
	"Origin: Debian\n" +
	"Suite: trixie\n" +
	"Codename: trixie\n" +
	"Components: main contrib\n" +
	"\n" +
	"-----BEGIN PGP SIGNATURE-----\n" +
	"\n" +
	"iQIzBAEBCgAdFiEE\n" +
	"-----END PGP SIGNATURE-----\n"

const strippedRelease = "Origin: Debian\n" +
	"Suite: trixie\n" +
	"Codename: trixie\n" +
	"Components: main contrib\n"

// newGatewayApp wires the full serving stack over the given store, using the
// built-in ecosystem table so flows exercise alias resolution too.
func newGatewayApp(t *testing.T, store storage.Store) *fiber.App {
	t.Helper()

	set, err := ecosystem.NewSet(config.DefaultEcosystems())
	if err != nil {
		t.Fatalf("set error: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Gateway:    gateway.NewHandler(set, store, logger, time.Hour),
		ListenPort: 5000,
	})
	if err != nil {
		t.Fatalf("app error: %v", err)
	}
	routes.RegisterEcosystemRoutes(app, set)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error: %v", err)
	}
	return body
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("gzip write error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close error: %v", err)
	}
	return buf.Bytes()
}
