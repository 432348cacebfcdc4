package web

import (
	"net/http"

	"ascend/internal/adapters/http/middleware"
)

// registerRoutes maps every public and back-office route.
func registerRoutes(mux *http.ServeMux) {
	mux.Handle("GET /static/", staticHandler())
	if site.Uploads != nil {
		mux.Handle("GET /uploads/", site.Uploads)
	}
	mux.HandleFunc("/", handleNotFound)
	mux.HandleFunc("GET /healthz", handleHealthz)

	// Public site
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /programs", handlePrograms)
	mux.HandleFunc("GET /events", handleEvents)
	mux.HandleFunc("GET /events/{id}", handleEvent)
	mux.HandleFunc("POST /events/{id}/register", handleEventRegister)
	mux.HandleFunc("GET /pricing", handlePricing)
	mux.HandleFunc("GET /checkout", handleCheckout)
	mux.HandleFunc("GET /blog", handleBlog)
	mux.HandleFunc("GET /blog/{slug}", handleBlogPost)
	mux.HandleFunc("GET /contact", handleContactForm)
	mux.HandleFunc("POST /contact", handleContactSubmit)
	mux.HandleFunc("POST /newsletter", handleNewsletter)
	mux.HandleFunc("GET /admin", handleAdminRedirect)

	// Back-office sign-in
	mux.HandleFunc("GET /backoffice/login", handleLoginForm)
	mux.HandleFunc("POST /backoffice/login", handleLogin)
	mux.HandleFunc("GET /backoffice/reset-password", handleResetForm)
	mux.HandleFunc("POST /backoffice/reset-password", handleReset)
	mux.HandleFunc("POST /backoffice/logout", handleLogout)

	// Back-office (admin only)
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAdmin(h))
	}
	admin("GET /backoffice/{$}", handleDashboard)
	admin("GET /backoffice/tables/{table}", handleTable)
	admin("POST /backoffice/tables/{table}/delete", handleDeleteRow)
	admin("POST /backoffice/tables/{table}/bulk-delete", handleBulkDelete)
	admin("POST /backoffice/tables/{table}/export", handleExport)
	admin("GET /backoffice/tables/{table}/new", handleNewRowForm)
	admin("POST /backoffice/tables/{table}/new", handleSaveRow)
	admin("GET /backoffice/tables/{table}/{id}/edit", handleEditRowForm)
	admin("POST /backoffice/tables/{table}/{id}/edit", handleSaveRow)
	admin("POST /backoffice/uploads", handleUpload)
	admin("POST /backoffice/uploads/delete", handleDeleteUpload)
}
