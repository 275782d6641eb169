package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/devhelp-hub/devhelp-backend/internal/application/command"
	"github.com/devhelp-hub/devhelp-backend/internal/application/query"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/comment"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/auth"
	"github.com/devhelp-hub/devhelp-backend/pkg/logger"
)

// maxRequestBodyBytes limits the size of accepted JSON request bodies.
const maxRequestBodyBytes = 1 << 20 // 1 MB

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// authedHandler is an HTTP handler that requires a verified caller identity.
type authedHandler func(w http.ResponseWriter, r *http.Request, actor *identity.Identity)

// withAuth verifies the bearer credential and passes the resulting identity
// to the wrapped handler. Requests without a valid credential get 401.
func (s *Server) withAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := s.authenticate(r)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		next(w, r, actor)
	}
}

// authenticate extracts and verifies the bearer token from the request.
func (s *Server) authenticate(r *http.Request) (*identity.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, auth.ErrTokenMissing
	}

	const prefix = "Bearer "
	if len(header) <= len(prefix) || !equalFoldPrefix(header, prefix) {
		return nil, auth.ErrTokenMalformed
	}

	return s.deps.Tokens.Verify(header[len(prefix):])
}

// equalFoldPrefix reports whether s begins with prefix, case-insensitively.
func equalFoldPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := s[i], prefix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps a domain or auth error to the right HTTP status and
// writes the JSON error envelope. Not-found always wins over authorization
// in the application layer, so the mapping here stays mechanical.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case auth.IsAuthError(err), shared.IsUnauthenticated(err):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "A valid access token is required")
	case shared.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsInvalidTransition(err):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// decodeJSONBody decodes the request body into dst with a size cap.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "DevHelp API",
		"version":     "v1",
		"description": "REST API for DevHelp - peer-to-peer doubt resolution",
		"endpoints": map[string]string{
			"health":        "/health",
			"doubts":        "/api/v1/doubts",
			"notifications": "/api/v1/notifications",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(r.Context()); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(r.Context()); err != nil {
			checks["cache"] = err.Error()
			healthy = false
		} else {
			checks["cache"] = "ok"
		}
	}

	status := map[string]interface{}{
		"status": "healthy",
		"uptime": s.Uptime().String(),
		"checks": checks,
	}

	if !healthy {
		status["status"] = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// DOUBT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createDoubtRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

type doubtResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	Status        string     `json:"status"`
	OwnerID       string     `json:"owner_id"`
	ResolvedBy    string     `json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CommentCount  int        `json:"comment_count,omitempty"`
}

func toDoubtResponse(d *doubt.Doubt) doubtResponse {
	return doubtResponse{
		ID:            string(d.ID),
		Title:         d.Title,
		Description:   d.Description,
		AttachmentURL: d.AttachmentURL,
		Status:        string(d.Status),
		OwnerID:       string(d.OwnerID),
		ResolvedBy:    string(d.ResolvedBy),
		ResolvedAt:    d.ResolvedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDoubtResponses(doubts []*doubt.Doubt) []doubtResponse {
	out := make([]doubtResponse, 0, len(doubts))
	for _, d := range doubts {
		out = append(out, toDoubtResponse(d))
	}
	return out
}

// handleListDoubts handles GET /api/v1/doubts
func (s *Server) handleListDoubts(w http.ResponseWriter, r *http.Request) {
	q := query.ListDoubtsQuery{
		Status: doubt.Status(getQueryParam(r, "status", "")),
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 50),
	}

	result, err := s.deps.ListDoubts.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	meta := &ResponseMeta{
		TotalCount: result.Total,
		PageSize:   q.Limit,
		HasMore:    q.Offset+len(result.Doubts) < result.Total,
	}

	writeJSONWithMeta(w, r, http.StatusOK, toDoubtResponses(result.Doubts), meta)
}

// handleCreateDoubt handles POST /api/v1/doubts
func (s *Server) handleCreateDoubt(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	var req createDoubtRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON")
		return
	}

	cmd := command.CreateDoubtCommand{
		Actor:         actor,
		Title:         req.Title,
		Description:   req.Description,
		AttachmentURL: req.AttachmentURL,
	}

	result, err := s.deps.CreateDoubt.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDoubtResponse(result.Doubt))
}

// handleGetDoubt handles GET /api/v1/doubts/{id}
func (s *Server) handleGetDoubt(w http.ResponseWriter, r *http.Request) {
	doubtID := r.PathValue("id")
	if doubtID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Doubt ID is required")
		return
	}

	result, err := s.deps.GetDoubt.Handle(r.Context(), query.GetDoubtQuery{DoubtID: doubt.DoubtID(doubtID)})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := toDoubtResponse(result.Doubt)
	resp.CommentCount = result.CommentCount

	writeJSON(w, http.StatusOK, resp)
}

// handleListMyDoubts handles GET /api/v1/doubts/mine
func (s *Server) handleListMyDoubts(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	q := query.ListDoubtsByOwnerQuery{
		Actor:  actor,
		Status: doubt.Status(getQueryParam(r, "status", "")),
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 50),
	}

	result, err := s.deps.ListDoubtsByOwner.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	meta := &ResponseMeta{TotalCount: result.Total, PageSize: q.Limit}
	writeJSONWithMeta(w, r, http.StatusOK, toDoubtResponses(result.Doubts), meta)
}

// handleResolveDoubt handles POST /api/v1/doubts/{id}/resolve
func (s *Server) handleResolveDoubt(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	cmd := command.ResolveDoubtCommand{
		Actor:   actor,
		DoubtID: doubt.DoubtID(r.PathValue("id")),
	}

	result, err := s.deps.ResolveDoubt.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDoubtResponse(result.Doubt))
}

// handleReopenDoubt handles POST /api/v1/doubts/{id}/reopen
func (s *Server) handleReopenDoubt(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	cmd := command.ReopenDoubtCommand{
		Actor:   actor,
		DoubtID: doubt.DoubtID(r.PathValue("id")),
	}

	result, err := s.deps.ReopenDoubt.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDoubtResponse(result.Doubt))
}

// handleDeleteDoubt handles DELETE /api/v1/doubts/{id}
func (s *Server) handleDeleteDoubt(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	cmd := command.DeleteDoubtCommand{
		Actor:   actor,
		DoubtID: doubt.DoubtID(r.PathValue("id")),
	}

	if err := s.deps.DeleteDoubt.Handle(r.Context(), cmd); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type addCommentRequest struct {
	Message string `json:"message"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	DoubtID   string    `json:"doubt_id"`
	AuthorID  string    `json:"author_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(c *comment.Comment) commentResponse {
	return commentResponse{
		ID:        string(c.ID),
		DoubtID:   string(c.DoubtID),
		AuthorID:  string(c.AuthorID),
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}

// handleListComments handles GET /api/v1/doubts/{id}/comments
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListComments.Handle(r.Context(), query.ListCommentsQuery{
		DoubtID: doubt.DoubtID(r.PathValue("id")),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]commentResponse, 0, len(result.Comments))
	for _, c := range result.Comments {
		out = append(out, toCommentResponse(c))
	}

	meta := &ResponseMeta{TotalCount: len(out)}
	writeJSONWithMeta(w, r, http.StatusOK, out, meta)
}

// handleAddComment handles POST /api/v1/doubts/{id}/comments
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	var req addCommentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON")
		return
	}

	cmd := command.AddCommentCommand{
		Actor:   actor,
		DoubtID: doubt.DoubtID(r.PathValue("id")),
		Message: req.Message,
	}

	result, err := s.deps.AddComment.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(result.Comment))
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type notificationResponse struct {
	ID          string     `json:"id"`
	RecipientID string     `json:"recipient_id"`
	DoubtID     string     `json:"doubt_id,omitempty"`
	Message     string     `json:"message"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toNotificationResponse(n *notification.Notification) notificationResponse {
	return notificationResponse{
		ID:          string(n.ID),
		RecipientID: string(n.RecipientID),
		DoubtID:     string(n.DoubtID),
		Message:     n.Message,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// handleListNotifications handles GET /api/v1/notifications
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	q := query.ListNotificationsQuery{
		Actor:      actor,
		UnreadOnly: getQueryParamBool(r, "unread"),
		Offset:     getQueryParamInt(r, "offset", 0),
		Limit:      getQueryParamInt(r, "limit", 50),
	}

	result, err := s.deps.ListNotifications.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]notificationResponse, 0, len(result.Notifications))
	for _, n := range result.Notifications {
		out = append(out, toNotificationResponse(n))
	}

	meta := &ResponseMeta{TotalCount: len(out), PageSize: q.Limit}
	writeJSONWithMeta(w, r, http.StatusOK, out, meta)
}

// handleUnreadCount handles GET /api/v1/notifications/unread-count
func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	result, err := s.deps.UnreadCount.Handle(r.Context(), query.UnreadCountQuery{Actor: actor})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": result.Count})
}

// handleMarkNotificationRead handles PATCH /api/v1/notifications/{id}/read
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request, actor *identity.Identity) {
	cmd := command.MarkNotificationReadCommand{
		Actor:          actor,
		NotificationID: notification.NotificationID(r.PathValue("id")),
	}

	result, err := s.deps.MarkNotificationRead.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toNotificationResponse(result.Notification))
}
