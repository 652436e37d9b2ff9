package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eta-einvoice/internal/application/dto"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	apphttp "github.com/jhoicas/eta-einvoice/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/eta-einvoice/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "eta-einvoice-test"
	testExpMin    = 60
)

// tokenForRole devuelve el header Authorization con un JWT del rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// rbacApp una ruta por política de acceso del router real.
func rbacApp() *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"role": apphttp.GetRole(c)}) }
	g := app.Group("/", apphttp.AuthMiddleware(testJWTSecret))
	g.Post("/submit", apphttp.RequireRole(entity.RoleAdmin, entity.RoleContador), ok)
	g.Put("/credentials", apphttp.RequireRole(entity.RoleAdmin), ok)
	g.Get("/status", ok)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, authHeader string) (int, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestRequireRole_PoliticasPorRuta(t *testing.T) {
	cases := []struct {
		role        string
		method      string
		path        string
		status      int
		errorCode   string
		description string
	}{
		{entity.RoleAdmin, http.MethodPost, "/submit", http.StatusOK, "", "admin envía"},
		{entity.RoleContador, http.MethodPost, "/submit", http.StatusOK, "", "contador envía"},
		{entity.RoleVendedor, http.MethodPost, "/submit", http.StatusForbidden, "FORBIDDEN", "vendedor no envía"},
		{entity.RoleAdmin, http.MethodPut, "/credentials", http.StatusOK, "", "admin configura credenciales"},
		{entity.RoleContador, http.MethodPut, "/credentials", http.StatusForbidden, "FORBIDDEN", "contador no ve secretos"},
		{entity.RoleVendedor, http.MethodGet, "/status", http.StatusOK, "", "cualquiera consulta estado"},
		{"", http.MethodPost, "/submit", http.StatusUnauthorized, "MISSING_ROLE", "token sin rol"},
	}
	app := rbacApp()
	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			status, body := call(t, app, tc.method, tc.path, tokenForRole(t, tc.role))
			assert.Equal(t, tc.status, status)
			if tc.errorCode != "" {
				assert.Equal(t, tc.errorCode, body.Code)
			}
		})
	}
}

func TestAuthMiddleware_TokenAusenteOInvalido(t *testing.T) {
	app := rbacApp()

	status, body := call(t, app, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body.Code)

	status, _ = call(t, app, http.MethodGet, "/status", "Bearer token.invalido.aqui")
	assert.Equal(t, http.StatusUnauthorized, status)

	other, err := pkgjwt.Generate("otro-secret", testUserID, testCompanyID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)
	status, _ = call(t, app, http.MethodGet, "/status", "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, status, "firma con otro secreto")

	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", testIssuer, -5)
	require.NoError(t, err)
	status, _ = call(t, app, http.MethodGet, "/status", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, status, "token vencido")
}

func TestAuthMiddleware_CargaUsuarioEmpresaYRol(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleContador))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, entity.RoleContador, body["role"])
}
