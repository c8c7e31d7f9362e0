package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ops-dashboard-api/internal/application/analytics"
	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/notification"
	"github.com/jhoicas/ops-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/upload"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions      *auth.SessionManager
	Registry      *permission.Registry
	Menu          []permission.MenuItem
	JWTExpMinutes int

	CompanyUC   *usecase.CompanyUseCase
	UserUC      *usecase.UserUseCase
	ProfileUC   *usecase.ProfileUseCase
	OrderUC     *usecase.OrderUseCase
	OrderSheet  *usecase.OrderSheetUseCase
	ProductUC   *usecase.ProductUseCase
	DashboardUC *analytics.DashboardUseCase

	Notifications *notification.Store
	Database      repository.Database
	Uploads       upload.Storage
	MaxUpload     int64

	// Done se cierra al apagar el servidor para terminar los streams SSE.
	Done <-chan struct{}
	Log  *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	can := func(perms ...permission.Permission) fiber.Handler {
		return RequirePermission(deps.Registry, perms...)
	}

	api := app.Group("/api")

	// Auth (público salvo logout)
	authHandler := NewAuthHandler(deps.Sessions, deps.Registry, deps.Menu, deps.JWTExpMinutes, log.Named("auth"))
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/session", authHandler.Session)

	// Rutas protegidas (requieren Bearer Token o ?access_token=)
	protected := api.Group("/", AuthMiddleware(deps.Sessions, log))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me/menu", authHandler.Menu)
	protected.Get("/me/permissions", authHandler.Permissions)

	// Companies
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	companies := protected.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	dashboard := protected.Group("/dashboard", can(permission.ViewDashboard))
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/areas/:area/products", can(permission.ViewProducts), dashboardHandler.AreaProducts)

	// Orders
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderSheet, deps.MaxUpload, log)
	orders := protected.Group("/orders")
	orders.Get("/", can(permission.ViewOrders), orderHandler.List)
	orders.Post("/", can(permission.CreateOrder), orderHandler.Create)
	orders.Get("/assignees", can(permission.AssignOrder), orderHandler.Assignees)
	orders.Get("/:id", can(permission.ViewOrders), orderHandler.GetByID)
	orders.Put("/:id", can(permission.EditOrder), orderHandler.Update)
	orders.Delete("/:id", can(permission.DeleteOrder), orderHandler.Delete)
	orders.Patch("/:id/status", can(permission.UpdateOrderStatus), orderHandler.UpdateStatus)
	orders.Post("/:id/comments", can(permission.AddOrderComment), orderHandler.AddComment)
	orders.Post("/:id/photos", can(permission.AddOrderComment), orderHandler.AddPhoto)
	orders.Get("/:id/pdf", can(permission.ViewOrders), orderHandler.DownloadPDF)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.MaxUpload, log)
	products := protected.Group("/products")
	products.Get("/", can(permission.ViewProducts), productHandler.List)
	products.Post("/", can(permission.CreateProduct), productHandler.Create)
	products.Get("/:id", can(permission.ViewProducts), productHandler.GetByID)
	products.Put("/:id", can(permission.EditProduct), productHandler.Update)
	products.Delete("/:id", can(permission.DeleteProduct), productHandler.Delete)
	products.Post("/:id/photos", can(permission.EditProduct), productHandler.AddPhoto)
	products.Delete("/:id/photos/:photoId", can(permission.EditProduct), productHandler.RemovePhoto)

	// Users y perfil
	userHandler := NewUserHandler(deps.UserUC, deps.ProfileUC, log)
	users := protected.Group("/users", can(permission.ManageUsers))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	protected.Get("/profile", userHandler.Profile)
	protected.Put("/profile", userHandler.UpdateProfile)

	// Notifications (campana, por empresa)
	notificationHandler := NewNotificationHandler(deps.Notifications, deps.Done, log)
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Delete("/", notificationHandler.Clear)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Get("/stream", notificationHandler.Stream)
	notifications.Post("/read-all", notificationHandler.MarkAllAsRead)
	notifications.Post("/:id/read", notificationHandler.MarkAsRead)
	notifications.Delete("/:id", notificationHandler.Remove)

	// Cambios en vivo
	eventsHandler := NewEventsHandler(deps.Database, deps.Registry, deps.Done, log)
	protected.Get("/events", eventsHandler.Stream)

	// Upload de imágenes (avatar)
	uploadHandler := NewUploadHandler(deps.Uploads, deps.MaxUpload, log)
	protected.Post("/upload", uploadHandler.Upload)
}
