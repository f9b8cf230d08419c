package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/talyaroofing/crm/handlers"
	"github.com/talyaroofing/crm/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.RegisterCompany).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	public := handlers.NewPublicHandler()
	r.HandleFunc("/public/projects/{id}", public.GetPublicProject).Methods("GET")

	// =====================================================
	// Provider Webhooks (no JWT; authenticated by signature
	// or shared secret inside the handler)
	// =====================================================
	twilioHooks := handlers.NewTwilioWebhookHandler()
	vapiHooks := handlers.NewVapiWebhookHandler()
	webhooks := r.PathPrefix("/api/v1/webhooks").Subrouter()
	webhooks.HandleFunc("/twilio/sms", twilioHooks.InboundSMS).Methods("POST")
	webhooks.HandleFunc("/twilio/voice", twilioHooks.InboundVoice).Methods("POST")
	webhooks.HandleFunc("/twilio/voice-router", twilioHooks.VoiceRouter).Methods("POST")
	webhooks.HandleFunc("/twilio/voice-ai", twilioHooks.VoiceAI).Methods("POST")
	webhooks.HandleFunc("/twilio/status", twilioHooks.CallStatus).Methods("POST")
	webhooks.HandleFunc("/vapi", vapiHooks.HandleEvent).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.SecurityMiddleware)
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.GetCurrentUser).Methods("GET")
	api.HandleFunc("/company", handlers.GetCompany).Methods("GET")
	api.HandleFunc("/users", handlers.ListUsers).Methods("GET")

	registerCustomerRoutes(api)
	registerProjectRoutes(api)
	registerCommunicationRoutes(api)

	activity := handlers.NewActivityHandler()
	api.HandleFunc("/activity", activity.ListCompanyActivity).Methods("GET")

	dashboard := handlers.NewDashboardHandler()
	api.HandleFunc("/dashboard/stats", dashboard.GetStats).Methods("GET")

	export := handlers.NewExportHandler()
	api.HandleFunc("/export/projects", export.ExportProjects).Methods("GET")

	// =====================================================
	// Admin Routes (company management)
	// =====================================================
	adminOnly := []string{"admin"}
	api.Handle("/company", middleware.RequireRole(adminOnly,
		http.HandlerFunc(handlers.UpdateCompany))).Methods("PATCH")
	api.Handle("/users", middleware.RequireRole(adminOnly,
		http.HandlerFunc(handlers.CreateUser))).Methods("POST")

	return r
}

func registerCustomerRoutes(api *mux.Router) {
	h := handlers.NewCustomerHandler()
	api.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{id}", h.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods("PATCH")
	api.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods("DELETE")
}

func registerProjectRoutes(api *mux.Router) {
	projects := handlers.NewProjectHandler()
	api.HandleFunc("/projects", projects.CreateProject).Methods("POST")
	api.HandleFunc("/projects", projects.ListProjects).Methods("GET")
	api.HandleFunc("/projects/board", projects.GetProjectBoard).Methods("GET")
	api.HandleFunc("/projects/{id}", projects.GetProject).Methods("GET")
	api.HandleFunc("/projects/{id}", projects.UpdateProject).Methods("PATCH")
	api.HandleFunc("/projects/{id}", projects.DeleteProject).Methods("DELETE")
	api.HandleFunc("/projects/{id}/status", projects.UpdateProjectStatus).Methods("PATCH")

	activity := handlers.NewActivityHandler()
	api.HandleFunc("/projects/{id}/activity", activity.ListProjectActivity).Methods("GET")

	photos := handlers.NewPhotoHandler()
	api.HandleFunc("/projects/{id}/photos", photos.UploadPhoto).Methods("POST")
	api.HandleFunc("/projects/{id}/photos", photos.ListPhotos).Methods("GET")
	api.HandleFunc("/projects/{id}/photos/{photoId}", photos.UpdatePhoto).Methods("PATCH")
	api.HandleFunc("/projects/{id}/photos/{photoId}", photos.DeletePhoto).Methods("DELETE")

	measurements := handlers.NewMeasurementHandler()
	api.HandleFunc("/projects/{id}/measurements", measurements.CreateMeasurement).Methods("POST")
	api.HandleFunc("/projects/{id}/measurements", measurements.ListMeasurements).Methods("GET")
	api.HandleFunc("/projects/{id}/measurements/{measurementId}", measurements.DeleteMeasurement).Methods("DELETE")

	estimates := handlers.NewEstimateHandler()
	api.HandleFunc("/projects/{id}/estimates", estimates.CreateEstimate).Methods("POST")
	api.HandleFunc("/projects/{id}/estimates", estimates.ListEstimates).Methods("GET")
	api.HandleFunc("/estimates/{estimateId}", estimates.GetEstimate).Methods("GET")
	api.HandleFunc("/estimates/{estimateId}", estimates.UpdateEstimate).Methods("PATCH")
	api.HandleFunc("/estimates/{estimateId}", estimates.DeleteEstimate).Methods("DELETE")
	api.HandleFunc("/estimates/{estimateId}/status", estimates.UpdateEstimateStatus).Methods("PATCH")

	contracts := handlers.NewContractHandler()
	api.HandleFunc("/contracts", contracts.GenerateContract).Methods("POST")
	api.HandleFunc("/projects/{id}/contracts", contracts.ListContracts).Methods("GET")
	api.HandleFunc("/contracts/{contractId}", contracts.GetContract).Methods("GET")
	api.HandleFunc("/contracts/{contractId}/status", contracts.UpdateContractStatus).Methods("PATCH")
	api.HandleFunc("/contracts/{contractId}/sign", contracts.SignContract).Methods("POST")

	chat := handlers.NewChatHandler()
	api.HandleFunc("/projects/{id}/chat", chat.SendChatMessage).Methods("POST")
	api.HandleFunc("/projects/{id}/chat", chat.GetChatHistory).Methods("GET")
}

func registerCommunicationRoutes(api *mux.Router) {
	comms := handlers.NewCommunicationHandler()
	api.HandleFunc("/communications", comms.ListCommunications).Methods("GET")
	api.HandleFunc("/communications", comms.LogCommunication).Methods("POST")
	api.HandleFunc("/communications/sms", comms.SendSMS).Methods("POST")
	api.HandleFunc("/communications/call", comms.MakeCall).Methods("POST")
	api.HandleFunc("/communications/ai-call", comms.MakeAICall).Methods("POST")

	notifications := handlers.NewNotificationHandler()
	api.HandleFunc("/notifications", notifications.CreateNotification).Methods("POST")
	api.HandleFunc("/notifications", notifications.ListNotifications).Methods("GET")
	api.HandleFunc("/notifications/{notificationId}/cancel", notifications.CancelNotification).Methods("POST")
}
