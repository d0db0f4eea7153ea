package http

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

const (
	tokenStore = "00000000-0000-0000-0000-00000000000a"
	otherStore = "00000000-0000-0000-0000-00000000000b"
)

// scopeFor ejecuta storeScope con los locals que dejaría AuthMiddleware.
func scopeFor(t *testing.T, role, query string) string {
	t.Helper()
	app := fiber.New()
	app.Get("/scope", func(c *fiber.Ctx) error {
		c.Locals(LocalRole, role)
		c.Locals(LocalStoreID, tokenStore)
		return c.SendString(storeScope(c))
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/scope"+query, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestStoreScope(t *testing.T) {
	cases := []struct {
		name  string
		role  string
		query string
		want  string
	}{
		{"superuser elige tienda", entity.RoleSuperuser, "?store_id=" + otherStore, otherStore},
		{"superuser sin filtro ve todas", entity.RoleSuperuser, "", ""},
		{"admin ignora store_id", entity.RoleAdmin, "?store_id=" + otherStore, tokenStore},
		{"admin sin filtro", entity.RoleAdmin, "", tokenStore},
		{"seller ignora store_id", entity.RoleSeller, "?store_id=" + otherStore, tokenStore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scopeFor(t, tc.role, tc.query))
		})
	}
}
