package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"agencydesk-backend/internal/config"
	"agencydesk-backend/internal/handlers"
)

// RouterDependencies holds all the dependencies required by the router
// setup, primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler     *handlers.AuthHandler
	PublicHandler   *handlers.PublicHandler
	ChatHandler     *handlers.ChatHandler
	ContentHandler  *handlers.ContentHandler
	CRMHandler      *handlers.CRMHandler
	BillingHandler  *handlers.BillingHandler
	SettingsHandler *handlers.SettingsHandler
	UploadHandler   *handlers.UploadHandler
	Config          *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// Public site content
	r.Route("/v1/content", func(r chi.Router) {
		r.Get("/hero", deps.PublicHandler.HandleGetHero)
		r.Get("/{section}", deps.PublicHandler.HandleGetSection)
	})
	r.Get("/v1/services", deps.PublicHandler.HandleListServices)
	r.Get("/v1/testimonials", deps.PublicHandler.HandleListTestimonials)
	r.Get("/v1/client-logos", deps.PublicHandler.HandleListClientLogos)
	r.Get("/v1/site-info", deps.PublicHandler.HandleSiteInfo)
	r.Post("/v1/contact", deps.PublicHandler.HandleContact)

	r.Route("/v1/whatsapp", func(r chi.Router) {
		r.Get("/link", deps.PublicHandler.HandleWhatsAppLink)
		r.Get("/qr", deps.PublicHandler.HandleWhatsAppQR)
	})

	// Chat widget (anonymous customers)
	r.Route("/v1/chat/conversations", func(r chi.Router) {
		r.Post("/", deps.ChatHandler.HandleStartConversation)
		r.Route("/{conversationID}", func(r chi.Router) {
			r.Post("/messages", deps.ChatHandler.HandleSendMessage)
			r.Get("/messages", deps.ChatHandler.HandleGetMessages)
			r.Post("/end", deps.ChatHandler.HandleEndConversation)
			r.Post("/feedback", deps.ChatHandler.HandleFeedback)
			r.Get("/ws", deps.ChatHandler.HandleWebsocket)
		})
	})

	// Public uploaded files
	r.Get("/uploads/{bucket}/{filename}", deps.UploadHandler.HandleServe)

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		// Agent console
		r.Route("/chat/conversations", func(r chi.Router) {
			r.Get("/", deps.ChatHandler.HandleListConversations)
			r.Route("/{conversationID}", func(r chi.Router) {
				r.Get("/", deps.ChatHandler.HandleGetConversation)
				r.Get("/presence", deps.ChatHandler.HandlePresence)
				r.Get("/messages", deps.ChatHandler.HandleAgentMessages)
				r.Post("/messages", deps.ChatHandler.HandleAgentReply)
				r.Post("/end", deps.ChatHandler.HandleEndConversation)
				r.Post("/reopen", deps.ChatHandler.HandleReopenConversation)
				r.Delete("/", deps.ChatHandler.HandleDeleteConversation)
			})
		})

		// Website content
		r.Route("/content", func(r chi.Router) {
			r.Get("/", deps.ContentHandler.HandleListContent)
			r.Post("/", deps.ContentHandler.HandleCreateContent)
			r.Get("/{contentID}", deps.ContentHandler.HandleGetContent)
			r.Put("/{contentID}", deps.ContentHandler.HandleUpdateContent)
			r.Delete("/{contentID}", deps.ContentHandler.HandleDeleteContent)
		})
		r.Route("/services", func(r chi.Router) {
			r.Get("/", deps.ContentHandler.HandleListServicesAdmin)
			r.Post("/", deps.ContentHandler.HandleCreateService)
			r.Put("/{serviceID}", deps.ContentHandler.HandleUpdateService)
			r.Delete("/{serviceID}", deps.ContentHandler.HandleDeleteService)
		})
		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/", deps.ContentHandler.HandleListTestimonialsAdmin)
			r.Post("/", deps.ContentHandler.HandleCreateTestimonial)
			r.Put("/{testimonialID}", deps.ContentHandler.HandleUpdateTestimonial)
			r.Delete("/{testimonialID}", deps.ContentHandler.HandleDeleteTestimonial)
		})
		r.Route("/client-logos", func(r chi.Router) {
			r.Get("/", deps.ContentHandler.HandleListClientLogosAdmin)
			r.Post("/", deps.ContentHandler.HandleCreateClientLogo)
			r.Put("/{logoID}", deps.ContentHandler.HandleUpdateClientLogo)
			r.Delete("/{logoID}", deps.ContentHandler.HandleDeleteClientLogo)
		})

		// Form submissions
		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", deps.CRMHandler.HandleListSubmissions)
			r.Get("/export", deps.CRMHandler.HandleExportSubmissions)
			r.Delete("/{submissionID}", deps.CRMHandler.HandleDeleteSubmission)
			r.Post("/{submissionID}/convert", deps.CRMHandler.HandleConvertSubmission)
		})

		// CRM leads
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", deps.CRMHandler.HandleListLeads)
			r.Post("/", deps.CRMHandler.HandleCreateLead)
			r.Get("/{leadID}", deps.CRMHandler.HandleGetLead)
			r.Put("/{leadID}", deps.CRMHandler.HandleUpdateLead)
			r.Delete("/{leadID}", deps.CRMHandler.HandleDeleteLead)
			r.Post("/{leadID}/notion-export", deps.CRMHandler.HandleExportLead)
		})

		// Billing
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", deps.BillingHandler.HandleListQuotations)
			r.Post("/", deps.BillingHandler.HandleCreateQuotation)
			r.Get("/export", deps.BillingHandler.HandleExportQuotations)
			r.Get("/{quotationID}", deps.BillingHandler.HandleGetQuotation)
			r.Patch("/{quotationID}/status", deps.BillingHandler.HandleUpdateQuotationStatus)
			r.Post("/{quotationID}/invoice", deps.BillingHandler.HandleInvoiceQuotation)
			r.Delete("/{quotationID}", deps.BillingHandler.HandleDeleteQuotation)
		})
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", deps.BillingHandler.HandleListInvoices)
			r.Post("/", deps.BillingHandler.HandleCreateInvoice)
			r.Get("/export", deps.BillingHandler.HandleExportInvoices)
			r.Get("/{invoiceID}", deps.BillingHandler.HandleGetInvoice)
			r.Patch("/{invoiceID}/status", deps.BillingHandler.HandleUpdateInvoiceStatus)
			r.Delete("/{invoiceID}", deps.BillingHandler.HandleDeleteInvoice)
		})

		// Uploads
		r.Post("/uploads/{bucket}", deps.UploadHandler.HandleUpload)

		// Admin-only subtrees
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", deps.AuthHandler.HandleListUsers)
				r.Post("/", deps.AuthHandler.HandleCreateUser)
				r.Patch("/{userID}", deps.AuthHandler.HandleUpdateUser)
				r.Delete("/{userID}", deps.AuthHandler.HandleDeleteUser)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", deps.SettingsHandler.HandleListSettings)
				r.Put("/{key}", deps.SettingsHandler.HandlePutSetting)
				r.Delete("/{key}", deps.SettingsHandler.HandleDeleteSetting)
			})
		})
	})

	return r
}
