package routes

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/debthin/debthin/internal/ecosystem"
	"github.com/debthin/debthin/internal/route"
)

// RegisterEcosystemRoutes 暴露 /-/ecosystems 诊断接口，供运维查询生态表
// 与路由级联次序。
func RegisterEcosystemRoutes(app *fiber.App, set *ecosystem.Set) {
	if app == nil || set == nil {
		return
	}

	app.Get("/-/ecosystems", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"ecosystems": encodeEcosystems(set),
			"rules":      route.RuleNames(),
		}
		return c.JSON(payload)
	})

	app.Get("/-/ecosystems/:id", func(c fiber.Ctx) error {
		id := strings.ToLower(strings.TrimSpace(c.Params("id")))
		if id == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ecosystem_id_required"})
		}
		eco, ok := set.Lookup(id)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ecosystem_not_found"})
		}
		return c.JSON(encodeEcosystem(eco, eco == set.Primary()))
	})
}

type ecosystemPayload struct {
	ID            string            `json:"id"`
	Upstream      string            `json:"upstream"`
	Primary       bool              `json:"primary"`
	Components    []string          `json:"components"`
	Architectures []string          `json:"architectures"`
	TrustAssets   []string          `json:"trust_assets"`
	Aliases       map[string]string `json:"aliases"`
}

func encodeEcosystems(set *ecosystem.Set) []ecosystemPayload {
	list := set.List()
	if len(list) == 0 {
		return nil
	}
	result := make([]ecosystemPayload, 0, len(list))
	for _, eco := range list {
		result = append(result, encodeEcosystem(eco, eco == set.Primary()))
	}
	return result
}

func encodeEcosystem(eco *ecosystem.Ecosystem, primary bool) ecosystemPayload {
	return ecosystemPayload{
		ID:            eco.ID,
		Upstream:      eco.Upstream,
		Primary:       primary,
		Components:    append([]string(nil), eco.Components...),
		Architectures: append([]string(nil), eco.Architectures...),
		TrustAssets:   eco.TrustAssets(),
		Aliases:       eco.Aliases(),
	}
}
