// Package server wires the gateway's HTTP surface: routing, the API-key
// guard, the delivery-context middleware and the JSON error boundary.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bcgov/notify/internal/config"
	"github.com/bcgov/notify/internal/delivery"
	"github.com/bcgov/notify/internal/gcnotify"
	"github.com/bcgov/notify/internal/identity"
	"github.com/bcgov/notify/internal/notify"
	"github.com/bcgov/notify/internal/notifytype"
	"github.com/bcgov/notify/internal/template"
	"github.com/bcgov/notify/internal/tenant"
)

type Server struct {
	cfg         *config.Config
	gcNotify    *gcnotify.Service
	notify      *notify.Service
	templates   *template.Service
	senders     *identity.Service
	notifyTypes *notifytype.Service
	defaults    *tenant.Service
	deliveryCtx *delivery.ContextResolver
}

func NewServer(
	cfg *config.Config,
	gcNotify *gcnotify.Service,
	notifySvc *notify.Service,
	templates *template.Service,
	senders *identity.Service,
	notifyTypes *notifytype.Service,
	defaults *tenant.Service,
	deliveryCtx *delivery.ContextResolver,
) *Server {
	return &Server{
		cfg:         cfg,
		gcNotify:    gcNotify,
		notify:      notifySvc,
		templates:   templates,
		senders:     senders,
		notifyTypes: notifyTypes,
		defaults:    defaults,
		deliveryCtx: deliveryCtx,
	}
}

// Router builds the full route table. /health and /metrics sit outside the
// API-key guard; everything else requires it and carries a delivery context.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.NewRoute().Subrouter()
	api.Use(s.requireAPIKey)
	api.Use(s.deliveryCtx.Middleware)

	// GC Notify-compatible v2 API
	api.HandleFunc("/gc-notify/v2/notifications/email", s.handleGCSendEmail).Methods("POST")
	api.HandleFunc("/gc-notify/v2/notifications/sms", s.handleGCSendSms).Methods("POST")
	api.HandleFunc("/gc-notify/v2/notifications/bulk", s.handleGCSendBulk).Methods("POST")
	api.HandleFunc("/gc-notify/v2/notifications", s.handleGCGetNotifications).Methods("GET")
	api.HandleFunc("/gc-notify/v2/notifications/{notificationId}", s.handleGCGetNotification).Methods("GET")
	api.HandleFunc("/gc-notify/v2/templates", s.handleGCGetTemplates).Methods("GET")
	api.HandleFunc("/gc-notify/v2/template/{templateId}", s.handleGCGetTemplate).Methods("GET")

	// Template management
	api.HandleFunc("/templates", s.handleGetTemplates).Methods("GET")
	api.HandleFunc("/templates", s.handleCreateTemplate).Methods("POST")
	api.HandleFunc("/templates/{id}", s.handleGetTemplate).Methods("GET")
	api.HandleFunc("/templates/{id}", s.handleUpdateTemplate).Methods("PUT")
	api.HandleFunc("/templates/{id}", s.handleDeleteTemplate).Methods("DELETE")

	// Sender management (snake_case view)
	api.HandleFunc("/v1/senders", s.handleGetSenders).Methods("GET")
	api.HandleFunc("/v1/senders", s.handleCreateSender).Methods("POST")
	api.HandleFunc("/v1/senders/{id}", s.handleGetSender).Methods("GET")
	api.HandleFunc("/v1/senders/{id}", s.handleUpdateSender).Methods("PUT")
	api.HandleFunc("/v1/senders/{id}", s.handleDeleteSender).Methods("DELETE")

	// Identity management (camelCase view over the same store)
	api.HandleFunc("/identities", s.handleGetIdentities).Methods("GET")
	api.HandleFunc("/identities", s.handleCreateIdentity).Methods("POST")
	api.HandleFunc("/identities/{id}", s.handleGetIdentity).Methods("GET")
	api.HandleFunc("/identities/{id}", s.handleUpdateIdentity).Methods("PUT")
	api.HandleFunc("/identities/{id}", s.handleDeleteIdentity).Methods("DELETE")

	// Notify types
	api.HandleFunc("/notifyTypes", s.handleGetNotifyTypes).Methods("GET")
	api.HandleFunc("/notifyTypes", s.handleCreateNotifyType).Methods("POST")
	api.HandleFunc("/notifyTypes/{id}", s.handleGetNotifyType).Methods("GET")
	api.HandleFunc("/notifyTypes/{id}", s.handleUpdateNotifyType).Methods("PUT")
	api.HandleFunc("/notifyTypes/{id}", s.handleDeleteNotifyType).Methods("DELETE")

	// Tenant defaults
	api.HandleFunc("/defaults", s.handleGetDefaults).Methods("GET")
	api.HandleFunc("/defaults", s.handleUpdateDefaults).Methods("PUT")

	// Notify (intent-profile sends)
	api.HandleFunc("/notify", s.handleNotifySend).Methods("POST")
	api.HandleFunc("/notify/preview", s.handleNotifyPreview).Methods("POST")
	api.HandleFunc("/notify/status/{notifyId}", s.handleNotifyStatus).Methods("GET")
	api.HandleFunc("/notify/cancel/{notifyId}", s.handleNotifyCancel).Methods("DELETE")
	api.HandleFunc("/notify/registerCallback", s.handleNotifyRegisterCallback).Methods("POST")

	// CHES facade (not implemented)
	api.HandleFunc("/ches/email", s.chesNotImplemented("email send")).Methods("POST")
	api.HandleFunc("/ches/emailMerge", s.chesNotImplemented("email merge")).Methods("POST")
	api.HandleFunc("/ches/emailMerge/preview", s.chesNotImplemented("email merge preview")).Methods("POST")
	api.HandleFunc("/ches/status", s.chesNotImplemented("status query")).Methods("GET")
	api.HandleFunc("/ches/status/{msgId}", s.chesNotImplemented("message status")).Methods("GET")
	api.HandleFunc("/ches/promote", s.chesNotImplemented("promote")).Methods("POST")
	api.HandleFunc("/ches/promote/{msgId}", s.chesNotImplemented("message promote")).Methods("POST")
	api.HandleFunc("/ches/cancel", s.chesNotImplemented("cancel")).Methods("DELETE")
	api.HandleFunc("/ches/cancel/{msgId}", s.chesNotImplemented("message cancel")).Methods("DELETE")
	api.HandleFunc("/ches/health", s.chesNotImplemented("health")).Methods("GET")

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "notify-api",
		"date":    time.Now().UTC().Format(time.RFC3339),
	})
}
