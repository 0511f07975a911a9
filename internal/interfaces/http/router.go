package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/OptiGestion-api/internal/application/analytics"
	"github.com/jhoicas/OptiGestion-api/internal/application/auth"
	"github.com/jhoicas/OptiGestion-api/internal/application/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/application/sales"
	"github.com/jhoicas/OptiGestion-api/internal/application/usecase"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	UserUC           *usecase.UserUseCase
	ClientUC         *usecase.ClientUseCase
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	AppointmentUC    *usecase.AppointmentUseCase
	PrescriptionUC   *usecase.PrescriptionUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Checkout         *sales.CheckoutUseCase
	Dashboard        *appanalytics.DashboardUseCase
	Email            EmailService
	Reminders        ReminderService
	Roles            RoleSource
	JWTSecret        string
	CronSecret       string
}

// Router registra las rutas de la API. Toda ruta autenticada declara su (módulo, acción).
func Router(app *fiber.App, deps RouterDeps) {
	perm := RequirePermission
	notificationHandler := NewNotificationHandler(deps.Email, deps.Reminders)

	// Cron (Bearer CRON_SECRET)
	app.Get("/cron/appointment-reminders", CronAuth(deps.CronSecret), notificationHandler.RunReminders)

	// Correo directo (JWT)
	email := app.Group("/email", AuthMiddleware(deps.JWTSecret, deps.Roles))
	email.Post("/welcome", perm(authz.ModuleClients, authz.ActionCreate), notificationHandler.SendWelcome)
	email.Post("/appointment-reminder", perm(authz.ModuleAppointments, authz.ActionCreate), notificationHandler.SendAppointmentReminder)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Roles))
	protected.Get("/auth/me", authHandler.Me)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	protected.Get("/dashboard/summary", perm(authz.ModuleDashboard, authz.ActionView), dashboardHandler.GetSummary)

	// Usuarios (configuración)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", perm(authz.ModuleSettings, authz.ActionUsers), userHandler.List)
	users.Put("/:id/role", perm(authz.ModuleSettings, authz.ActionRoles), userHandler.ChangeRole)

	// Clientes
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	prescriptionHandler := NewPrescriptionHandler(deps.PrescriptionUC)
	clients.Get("/stats", perm(authz.ModuleClients, authz.ActionStatistics), clientHandler.Stats)
	clients.Post("/", perm(authz.ModuleClients, authz.ActionCreate), clientHandler.Create)
	clients.Get("/", perm(authz.ModuleClients, authz.ActionView), clientHandler.List)
	clients.Get("/:id", perm(authz.ModuleClients, authz.ActionView), clientHandler.GetByID)
	clients.Put("/:id", perm(authz.ModuleClients, authz.ActionEdit), clientHandler.Update)
	clients.Delete("/:id", perm(authz.ModuleClients, authz.ActionDelete), clientHandler.Delete)
	clients.Get("/:id/history", perm(authz.ModuleClients, authz.ActionHistory), clientHandler.History)
	clients.Get("/:id/prescriptions", perm(authz.ModulePrescriptions, authz.ActionView), prescriptionHandler.ListByClient)

	// Productos y categorías
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.CategoryUC)
	products.Post("/", perm(authz.ModuleProducts, authz.ActionCreate), productHandler.Create)
	products.Get("/", perm(authz.ModuleProducts, authz.ActionView), productHandler.List)
	products.Get("/:id", perm(authz.ModuleProducts, authz.ActionView), productHandler.GetByID)
	products.Put("/:id", perm(authz.ModuleProducts, authz.ActionEdit), productHandler.Update)
	products.Delete("/:id", perm(authz.ModuleProducts, authz.ActionDelete), productHandler.Delete)

	categories := protected.Group("/categories")
	categories.Get("/", perm(authz.ModuleProducts, authz.ActionView), productHandler.ListCategories)
	categories.Post("/", perm(authz.ModuleProducts, authz.ActionCreate), productHandler.CreateCategory)

	// Inventario
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery, deps.Replenishment)
	invGroup.Post("/movements", perm(authz.ModuleInventory, authz.ActionMovements), inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", perm(authz.ModuleInventory, authz.ActionView), inventoryHandler.ListMovements)
	invGroup.Get("/stock/:id", perm(authz.ModuleInventory, authz.ActionView), inventoryHandler.GetStock)
	invGroup.Get("/low-stock", perm(authz.ModuleInventory, authz.ActionView), inventoryHandler.LowStock)
	invGroup.Get("/reconcile/:id", perm(authz.ModuleInventory, authz.ActionStatistics), inventoryHandler.Reconcile)
	invGroup.Get("/replenishment-list", perm(authz.ModuleInventory, authz.ActionStatistics), inventoryHandler.GetReplenishmentList)
	invGroup.Get("/purchase-order.pdf", perm(authz.ModuleInventory, authz.ActionStatistics), inventoryHandler.PurchaseOrderPDF)

	// Citas
	appointments := protected.Group("/appointments")
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC)
	appointments.Get("/day", perm(authz.ModuleAppointments, authz.ActionView), appointmentHandler.OnDate)
	appointments.Post("/", perm(authz.ModuleAppointments, authz.ActionCreate), appointmentHandler.Create)
	appointments.Get("/", perm(authz.ModuleAppointments, authz.ActionView), appointmentHandler.List)
	appointments.Get("/:id", perm(authz.ModuleAppointments, authz.ActionView), appointmentHandler.GetByID)
	appointments.Put("/:id", perm(authz.ModuleAppointments, authz.ActionEdit), appointmentHandler.Update)
	appointments.Post("/:id/complete", perm(authz.ModuleAppointments, authz.ActionEdit), appointmentHandler.Complete)
	appointments.Post("/:id/cancel", perm(authz.ModuleAppointments, authz.ActionEdit), appointmentHandler.Cancel)
	appointments.Delete("/:id", perm(authz.ModuleAppointments, authz.ActionDelete), appointmentHandler.Delete)

	// Recetas
	prescriptions := protected.Group("/prescriptions")
	prescriptions.Post("/", perm(authz.ModulePrescriptions, authz.ActionCreate), prescriptionHandler.Create)
	prescriptions.Get("/:id", perm(authz.ModulePrescriptions, authz.ActionView), prescriptionHandler.GetByID)

	// Ventas (punto de venta)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Checkout)
	salesGroup.Post("/quote", perm(authz.ModuleSales, authz.ActionCreate), saleHandler.Quote)
	salesGroup.Post("/", perm(authz.ModuleSales, authz.ActionCreate), saleHandler.Checkout)
	salesGroup.Get("/", perm(authz.ModuleSales, authz.ActionView), saleHandler.List)
	salesGroup.Get("/:id", perm(authz.ModuleSales, authz.ActionView), saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", perm(authz.ModuleSales, authz.ActionView), saleHandler.Receipt)
	salesGroup.Post("/:id/receipt/archive", perm(authz.ModuleSales, authz.ActionView), saleHandler.ArchiveReceipt)
}
