package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	apphttp "github.com/jhoicas/retail-admin-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/retail-admin-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testStoreID   = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "retail-admin-test"
	testExpMin    = 60
)

// guardedApp expone GET /guarded detrás de AuthMiddleware + RequireRole(roles...).
func guardedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id":  apphttp.GetUserID(c),
				"store_id": apphttp.GetStoreID(c),
				"role":     apphttp.GetRole(c),
			})
		},
	)
	return app
}

func signed(t *testing.T, secret, storeID, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testUserID, storeID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call devuelve status y cuerpo decodificado de GET /guarded.
func call(t *testing.T, app *fiber.App, authHeader string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body := map[string]string{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestRequireRole_MatrizDeRoles(t *testing.T) {
	managers := []string{entity.RoleSuperuser, entity.RoleAdmin}
	superuser := []string{entity.RoleSuperuser}

	cases := []struct {
		name    string
		allowed []string
		role    string
		want    int
	}{
		{"superuser en gestión", managers, entity.RoleSuperuser, http.StatusOK},
		{"admin en gestión", managers, entity.RoleAdmin, http.StatusOK},
		{"seller en gestión", managers, entity.RoleSeller, http.StatusForbidden},
		{"superuser en ruta de superuser", superuser, entity.RoleSuperuser, http.StatusOK},
		{"admin en ruta de superuser", superuser, entity.RoleAdmin, http.StatusForbidden},
		{"rol desconocido", managers, "auditor", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(t, guardedApp(tc.allowed...), signed(t, testJWTSecret, testStoreID, tc.role, testExpMin))
			assert.Equal(t, tc.want, status)
			if tc.want == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", body["code"])
			} else {
				assert.Equal(t, tc.role, body["role"])
			}
		})
	}
}

func TestAuthMiddleware_CodigosDeRechazo(t *testing.T) {
	cases := []struct {
		name   string
		header func(t *testing.T) string
		code   string
	}{
		{"sin header", func(*testing.T) string { return "" }, "MISSING_TOKEN"},
		{"esquema distinto de Bearer", func(*testing.T) string { return "Basic dXNlcjpwYXNz" }, "INVALID_TOKEN"},
		{"token malformado", func(*testing.T) string { return "Bearer token.invalido.aqui" }, "INVALID_TOKEN"},
		{"firmado con otro secreto", func(t *testing.T) string {
			return signed(t, "otro-secreto", testStoreID, entity.RoleAdmin, testExpMin)
		}, "INVALID_TOKEN"},
		{"vencido", func(t *testing.T) string {
			return signed(t, testJWTSecret, testStoreID, entity.RoleAdmin, -1)
		}, "TOKEN_EXPIRED"},
		{"sin rol", func(t *testing.T) string {
			return signed(t, testJWTSecret, testStoreID, "", testExpMin)
		}, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(t, guardedApp(entity.RoleAdmin), tc.header(t))
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	status, body := call(t, guardedApp(entity.RoleSeller), signed(t, testJWTSecret, testStoreID, entity.RoleSeller, testExpMin))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testStoreID, body["store_id"])
	assert.Equal(t, entity.RoleSeller, body["role"])

	// el superuser puede no tener tienda en el token
	status, body = call(t, guardedApp(entity.RoleSuperuser), signed(t, testJWTSecret, "", entity.RoleSuperuser, testExpMin))
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["store_id"])
}

func TestJWT_ParseDevuelveClaims(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testStoreID, entity.RoleSeller, testIssuer, testExpMin)
	require.NoError(t, err)

	userID, storeID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testStoreID, storeID)
	assert.Equal(t, entity.RoleSeller, role)

	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testStoreID, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse(testJWTSecret, expired)
	assert.ErrorIs(t, err, pkgjwt.ErrExpired)
}
