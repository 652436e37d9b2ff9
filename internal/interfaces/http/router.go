package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/eta-einvoice/internal/application/auth"
	"github.com/jhoicas/eta-einvoice/internal/application/billing"
	"github.com/jhoicas/eta-einvoice/internal/application/usecase"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *billing.CustomerUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	ETA           ETAService
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Alta de empresa (público: es el primer paso antes de registrar usuarios)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	companies := protected.Group("/companies")
	companies.Put("/me/eta-credentials", RequireRole(entity.RoleAdmin), companyHandler.SetETACredentials)
	companies.Get("/:id", companyHandler.GetByID)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)

	// ETA: enviar y cancelar solo admin o contador; consultar y sincronizar cualquier rol.
	etaHandler := NewETAHandler(deps.ETA)
	canSubmit := RequireRole(entity.RoleAdmin, entity.RoleContador)
	invoices.Get("/:id/eta", etaHandler.Status)
	invoices.Post("/:id/eta/submit", canSubmit, etaHandler.Submit)
	invoices.Post("/:id/eta/sync", etaHandler.Sync)
	invoices.Post("/:id/eta/cancel", canSubmit, etaHandler.Cancel)
}
