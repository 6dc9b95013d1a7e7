package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/debthin/debthin/internal/config"
	"github.com/debthin/debthin/internal/ecosystem"
)

func testSetup(t *testing.T) *fiber.App {
	t.Helper()

	set, err := ecosystem.NewSet(config.DefaultEcosystems())
	if err != nil {
		t.Fatalf("build set: %v", err)
	}

	app := fiber.New()
	RegisterEcosystemRoutes(app, set)
	return app
}

func TestListEcosystems(t *testing.T) {
	app := testSetup(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/-/ecosystems", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload struct {
		Ecosystems []ecosystemPayload `json:"ecosystems"`
		Rules      []string           `json:"rules"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	if len(payload.Ecosystems) != 2 {
		t.Fatalf("内置生态应为 2 个，得到 %d", len(payload.Ecosystems))
	}
	if payload.Ecosystems[0].ID != "debian" || !payload.Ecosystems[0].Primary {
		t.Fatalf("debian 应为首要生态: %+v", payload.Ecosystems[0])
	}
	if len(payload.Rules) == 0 {
		t.Fatalf("响应应携带路由规则次序")
	}
}

func TestGetEcosystemByID(t *testing.T) {
	app := testSetup(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/-/ecosystems/ubuntu", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload ecosystemPayload
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if payload.ID != "ubuntu" || payload.Primary {
		t.Fatalf("ubuntu 载荷不正确: %+v", payload)
	}
	if payload.Aliases["lts"] == "" {
		t.Fatalf("ubuntu 应包含 lts 别名")
	}
}

func TestGetEcosystemNotFound(t *testing.T) {
	app := testSetup(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/-/ecosystems/fedora", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("未知生态应 404，得到 %d", resp.StatusCode)
	}
}
