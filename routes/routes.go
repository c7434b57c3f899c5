package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tessera/admin"
	"tessera/auth"
	"tessera/categories"
	"tessera/events"
	"tessera/media"
	"tessera/middleware"
	"tessera/models"
	"tessera/monitoring"
	"tessera/orders"
	"tessera/pay"
	"tessera/ratelim"
	"tessera/suppliers"
	"tessera/tickets"
	"tessera/venues"
)

// Handlers groups everything the route tables need.
type Handlers struct {
	Auth       *auth.Handler
	Events     *events.Handler
	Categories *categories.Handler
	Venues     *venues.Handler
	Suppliers  *suppliers.Handler
	Media      *media.Handler
	Orders     *orders.Handler
	Pay        *pay.Handler
	Tickets    *tickets.Handler
	Admin      *admin.Handler
}

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/uploads/*filepath", http.Dir(uploadDir))
}

func AddAuthRoutes(router *httprouter.Router, h *Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(monitoring.Instrument("/api/auth/register", h.Auth.Register)))
	router.POST("/api/auth/login", rl.Limit(monitoring.Instrument("/api/auth/login", h.Auth.Login)))
	router.POST("/api/auth/logout", a.Authenticate(h.Auth.Logout))
	router.GET("/api/auth/profile", a.Authenticate(h.Auth.GetProfile))
	router.GET("/api/auth/users", a.RequireRoles(h.Auth.GetUsers, models.RoleAdmin))
	router.PUT("/api/auth/users/:userId/role", a.RequireRoles(h.Auth.ChangeRole, models.RoleAdmin))

	router.POST("/api/auth/otp/request", rl.Limit(h.Auth.RequestOTP))
	router.POST("/api/auth/otp/verify", rl.Limit(h.Auth.VerifyOTP))

	router.GET("/api/auth/google", h.Auth.GoogleRedirect)
	router.GET("/api/auth/google/callback", h.Auth.GoogleCallback)
}

func AddEventRoutes(router *httprouter.Router, h *Handlers, a *middleware.Auth) {
	router.GET("/api/events", a.MaybeAuthenticate(monitoring.Instrument("/api/events", h.Events.List)))
	router.GET("/api/events/event/:id", h.Events.GetByID)
	router.GET("/api/events/category/:categoryId", h.Events.ListByCategory)
	router.GET("/api/events/venue/:venueId", h.Events.ListByVenue)

	router.POST("/api/events", a.RequireRoles(h.Events.Create, models.RoleOrganizer, models.RoleAdmin))
	router.PUT("/api/events/event/:id", a.RequireRoles(h.Events.Update, models.RoleOrganizer, models.RoleAdmin))
	router.DELETE("/api/events/event/:id", a.RequireRoles(h.Events.Delete, models.RoleOrganizer, models.RoleAdmin))
}

func AddCatalogRoutes(router *httprouter.Router, h *Handlers, a *middleware.Auth) {
	router.GET("/api/categories", h.Categories.List)
	router.GET("/api/categories/:id", h.Categories.GetByID)
	router.POST("/api/categories", a.RequireRoles(h.Categories.Create, models.RoleOrganizer, models.RoleAdmin))
	router.PUT("/api/categories/:id", a.RequireRoles(h.Categories.Update, models.RoleOrganizer, models.RoleAdmin))
	router.DELETE("/api/categories/:id", a.RequireRoles(h.Categories.Delete, models.RoleOrganizer, models.RoleAdmin))

	router.GET("/api/venues", h.Venues.List)
	router.GET("/api/venues/:id", h.Venues.GetByID)
	router.POST("/api/venues", a.RequireRoles(h.Venues.Create, models.RoleOrganizer, models.RoleAdmin))
	router.PUT("/api/venues/:id", a.RequireRoles(h.Venues.Update, models.RoleOrganizer, models.RoleAdmin))
	router.DELETE("/api/venues/:id", a.RequireRoles(h.Venues.Delete, models.RoleOrganizer, models.RoleAdmin))

	router.GET("/api/suppliers", h.Suppliers.ListAll)
	router.GET("/api/suppliers/popular", h.Suppliers.ListPopular)
	router.GET("/api/suppliers/trending", h.Suppliers.ListTrending)
	router.GET("/api/suppliers/category/:category", h.Suppliers.ListByCategory)
	router.POST("/api/suppliers", a.RequireRoles(h.Suppliers.Create, models.RoleAdmin))
	router.PUT("/api/suppliers/:id", a.RequireRoles(h.Suppliers.Update, models.RoleAdmin))
	router.DELETE("/api/suppliers/:id", a.RequireRoles(h.Suppliers.Delete, models.RoleAdmin))

	router.GET("/api/media", h.Media.List)
	router.POST("/api/media", a.RequireRoles(h.Media.Create, models.RoleAdmin))
	router.DELETE("/api/media/:id", a.RequireRoles(h.Media.Delete, models.RoleAdmin))
}

func AddOrderRoutes(router *httprouter.Router, h *Handlers, a *middleware.Auth) {
	router.POST("/api/orders", a.Authenticate(monitoring.Instrument("/api/orders", h.Orders.Create)))
	router.GET("/api/orders/my-orders", a.Authenticate(h.Orders.UserOrders))
}

func AddPaymentRoutes(router *httprouter.Router, h *Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/payment/pay", rl.Limit(a.Authenticate(monitoring.Instrument("/api/payment/pay", h.Pay.Pay))))
	// Verify is hit by the gateway return redirect, which carries no token.
	router.GET("/api/payment/verify/:tx_ref", rl.Limit(monitoring.Instrument("/api/payment/verify", h.Pay.Verify)))
	// Gateway webhook, no session.
	router.POST("/api/payment/callback/:tx_ref", monitoring.Instrument("/api/payment/callback", h.Pay.Callback))
}

func AddTicketRoutes(router *httprouter.Router, h *Handlers, a *middleware.Auth) {
	router.GET("/api/tickets/ticket/:ticketId/download", a.Authenticate(h.Tickets.Download))
	router.GET("/api/tickets/download-tickets/:orderId", a.Authenticate(h.Tickets.DownloadOrder))
}

func AddAdminRoutes(router *httprouter.Router, h *Handlers, a *middleware.Auth) {
	router.GET("/api/admin/dashboard", a.RequireRoles(h.Admin.Dashboard, models.RoleAdmin))
	router.GET("/api/admin/orders", a.RequireRoles(h.Admin.GetAllOrders, models.RoleAdmin))
	router.PUT("/api/admin/orders/:orderId/status", a.RequireRoles(h.Admin.UpdateOrderStatus, models.RoleAdmin))
	router.DELETE("/api/admin/orders/:orderId", a.RequireRoles(h.Admin.DeleteOrder, models.RoleAdmin))
	router.PUT("/api/admin/events/:eventId/publish", a.RequireRoles(h.Admin.UpdateEventPublishStatus, models.RoleAdmin))
}

// AddAllRoutes wires every route table onto the router.
func AddAllRoutes(router *httprouter.Router, h *Handlers, a *middleware.Auth, rl *ratelim.RateLimiter, uploadDir string) {
	AddStaticRoutes(router, uploadDir)
	AddAuthRoutes(router, h, a, rl)
	AddEventRoutes(router, h, a)
	AddCatalogRoutes(router, h, a)
	AddOrderRoutes(router, h, a)
	AddPaymentRoutes(router, h, a, rl)
	AddTicketRoutes(router, h, a)
	AddAdminRoutes(router, h, a)
}
