package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bcgov/notify/internal/gcnotify"
)

func (s *Server) handleGCSendEmail(w http.ResponseWriter, r *http.Request) {
	var req gcnotify.EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.gcNotify.SendEmail(r.Context(), &req, gcNotifyAuthHeader(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGCSendSms(w http.ResponseWriter, r *http.Request) {
	var req gcnotify.SMSRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.gcNotify.SendSms(r.Context(), &req, gcNotifyAuthHeader(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGCSendBulk(w http.ResponseWriter, r *http.Request) {
	var req gcnotify.BulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.gcNotify.SendBulk(r.Context(), &req, gcNotifyAuthHeader(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGCGetNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeJobs, _ := strconv.ParseBool(q.Get("include_jobs"))
	query := gcnotify.NotificationQuery{
		TemplateType: q.Get("template_type"),
		Status:       q["status"],
		Reference:    q.Get("reference"),
		OlderThan:    q.Get("older_than"),
		IncludeJobs:  includeJobs,
	}
	resp, err := s.gcNotify.GetNotifications(r.Context(), query, gcNotifyAuthHeader(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGCGetNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["notificationId"]
	resp, err := s.gcNotify.GetNotificationByID(r.Context(), id, gcNotifyAuthHeader(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGCGetTemplates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.gcNotify.GetTemplates(r.Context(), r.URL.Query().Get("type"), gcNotifyAuthHeader(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGCGetTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["templateId"]
	resp, err := s.gcNotify.GetTemplate(r.Context(), id, gcNotifyAuthHeader(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
