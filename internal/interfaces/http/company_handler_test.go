package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eta-einvoice/internal/application/usecase"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	apphttp "github.com/jhoicas/eta-einvoice/internal/interfaces/http"
)

type companyStore struct{ byID map[string]*entity.Company }

func (s *companyStore) Create(_ context.Context, c *entity.Company) error {
	s.byID[c.ID] = c
	return nil
}

func (s *companyStore) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return s.byID[id], nil
}

type credStore struct{ saved []*entity.ETACredential }

func (s *credStore) GetByCompany(context.Context, string) (*entity.ETACredential, error) {
	return nil, nil
}

func (s *credStore) Upsert(_ context.Context, c *entity.ETACredential) error {
	s.saved = append(s.saved, c)
	return nil
}

type plainSealer struct{}

func (plainSealer) Seal(p []byte) ([]byte, error) { return append([]byte("sealed:"), p...), nil }

func companyApp() (*fiber.App, *credStore) {
	companies := &companyStore{byID: map[string]*entity.Company{
		testCompanyID: {ID: testCompanyID, Name: "Acme Egypt", TaxRegistrationNumber: "100324932"},
	}}
	creds := &credStore{}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC: usecase.NewCompanyUseCase(companies, creds, plainSealer{}, "preprod"),
		JWTSecret: testJWTSecret,
	})
	return app, creds
}

func TestSetETACredentials_SoloAdmin(t *testing.T) {
	app, creds := companyApp()
	body := `{"client_id":"cid","client_secret":"s3cr3t","environment":"production"}`

	resp, _ := etaRequest(t, app, http.MethodPut, "/api/companies/me/eta-credentials", "contador", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, creds.saved)

	resp, out := etaRequest(t, app, http.MethodPut, "/api/companies/me/eta-credentials", "admin", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "production", out["environment"])
	assert.NotContains(t, out, "client_secret", "el secreto no se devuelve")
	if assert.Len(t, creds.saved, 1) {
		assert.Equal(t, testCompanyID, creds.saved[0].CompanyID)
		assert.Equal(t, "sealed:s3cr3t", string(creds.saved[0].ClientSecretEncrypted))
	}
}

func TestSetETACredentials_AmbienteInvalido(t *testing.T) {
	app, _ := companyApp()
	resp, out := etaRequest(t, app, http.MethodPut, "/api/companies/me/eta-credentials", "admin",
		`{"client_id":"cid","client_secret":"x","environment":"staging"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out["code"])
}

func TestCompanyGetByID_SoloLaDelToken(t *testing.T) {
	app, _ := companyApp()

	resp, out := etaRequest(t, app, http.MethodGet, "/api/companies/"+testCompanyID, "vendedor", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme Egypt", out["name"])

	resp, _ = etaRequest(t, app, http.MethodGet, "/api/companies/otra", "admin", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
