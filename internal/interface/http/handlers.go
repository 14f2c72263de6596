// Package http implements the REST API for the mentorship hub.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/application/command"
	"github.com/mentorhub/mentorship-hub/internal/application/query"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
	"github.com/mentorhub/mentorship-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealth pings every registered dependency and reports per-check
// results. Any failure flips the overall status to 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.deps.HealthChecks))
	healthy := true

	for name, checker := range s.deps.HealthChecks {
		if err := checker.Ping(r.Context()); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
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

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.LoginHandler.Handle(r.Context(), command.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleLogout handles POST /auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := s.deps.LogoutHandler.Handle(r.Context(), command.LogoutCommand{
		Token: bearerToken(r),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type updateProfileRequest struct {
	FullName   string `json:"full_name"`
	Headline   string `json:"headline"`
	Bio        string `json:"bio"`
	Background string `json:"background"`
	Goals      string `json:"goals"`

	Expertise      string `json:"expertise"`
	Skills         string `json:"skills"`
	Interests      string `json:"interests"`
	HelpAreas      string `json:"help_areas"`
	Categories     string `json:"categories"`
	PreferredTimes string `json:"preferred_times"`

	Timezone        string  `json:"timezone"`
	ExperienceYears int     `json:"experience_years"`
	HourlyRate      float64 `json:"hourly_rate"`
}

// handleUpdateProfile handles PUT /profile
//
// The profile's role is taken from the account, never from the request
// body, so a client cannot flip itself into the mentor pool.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateProfileHandler.Handle(r.Context(), command.UpdateProfileCommand{
		UserID:          sess.UserID,
		FullName:        req.FullName,
		Headline:        req.Headline,
		Bio:             req.Bio,
		Background:      req.Background,
		Goals:           req.Goals,
		Expertise:       req.Expertise,
		Skills:          req.Skills,
		Interests:       req.Interests,
		HelpAreas:       req.HelpAreas,
		Categories:      req.Categories,
		PreferredTimes:  req.PreferredTimes,
		Timezone:        req.Timezone,
		ExperienceYears: req.ExperienceYears,
		HourlyRate:      req.HourlyRate,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// MATCHING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetSuggestions handles GET /suggestions
//
// Query parameters:
//   - for: "mentors" (default) or "mentees"
//   - limit: result cap
//   - requireAvailability: drop mentors without bookable slots
func (s *Server) handleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	direction := r.URL.Query().Get("for")
	if direction == "" {
		direction = query.DirectionMentors
	}

	q := query.GetSuggestionsQuery{
		ForUserID:           sess.UserID,
		Direction:           direction,
		Limit:               getQueryParamInt(r, "limit", 0),
		RequireAvailability: getQueryParamBool(r, "requireAvailability"),
	}

	result, err := s.deps.GetSuggestionsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExplainMatch handles GET /explain/{mentorId}
func (s *Server) handleExplainMatch(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	mentorID, err := shared.NewUserID(r.PathValue("mentorId"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid mentor id")
		return
	}

	result, err := s.deps.ExplainMatchHandler.Handle(r.Context(), query.ExplainMatchQuery{
		ForUserID: sess.UserID,
		MentorID:  mentorID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// AVAILABILITY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleMySlots handles GET /availability/me
//
// A mentor managing their own calendar sees every slot, booked and
// blocked included.
func (s *Server) handleMySlots(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	result, err := s.deps.ListSlotsHandler.Handle(r.Context(), query.ListSlotsQuery{
		MentorID:      sess.UserID,
		OnlyAvailable: false,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListSlots handles GET /availability/{mentorID}
//
// The public view shows only bookable slots unless all=true is passed.
func (s *Server) handleListSlots(w http.ResponseWriter, r *http.Request) {
	mentorID, err := shared.NewUserID(r.PathValue("mentorID"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid mentor id")
		return
	}

	result, err := s.deps.ListSlotsHandler.Handle(r.Context(), query.ListSlotsQuery{
		MentorID:      mentorID,
		OnlyAvailable: !getQueryParamBool(r, "all"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type createSlotRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// handleCreateSlot handles POST /availability
func (s *Server) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req createSlotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	slot, err := s.deps.CreateSlotHandler.Handle(r.Context(), command.CreateSlotCommand{
		MentorID:  sess.UserID,
		Role:      sess.Role,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, slot)
}

// handleDeleteSlot handles DELETE /availability/{slotID}
func (s *Server) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	err := s.deps.DeleteSlotHandler.Handle(r.Context(), command.DeleteSlotCommand{
		MentorID: sess.UserID,
		SlotID:   r.PathValue("slotID"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListReviews handles GET /reviews/mentor/{mentorID}
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	mentorID, err := shared.NewUserID(r.PathValue("mentorID"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid mentor id")
		return
	}

	result, err := s.deps.ListReviewsHandler.Handle(r.Context(), query.ListReviewsQuery{
		MentorID: mentorID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type submitReviewRequest struct {
	MentorID string  `json:"mentor_id"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
}

// handleSubmitReview handles POST /reviews
func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req submitReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	mentorID, err := shared.NewUserID(req.MentorID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid mentor id")
		return
	}

	result, err := s.deps.SubmitReviewHandler.Handle(r.Context(), command.SubmitReviewCommand{
		MenteeID: sess.UserID,
		MentorID: mentorID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHAT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetConversations handles GET /chat/conversations
func (s *Server) handleGetConversations(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	result, err := s.deps.GetConversationsHandler.Handle(r.Context(), query.GetConversationsQuery{
		ForUserID: sess.UserID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetHistory handles GET /chat/history/{otherId}
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	otherID, err := shared.NewUserID(r.PathValue("otherId"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid user id")
		return
	}

	result, err := s.deps.GetHistoryHandler.Handle(r.Context(), query.GetHistoryQuery{
		ForUserID:   sess.UserID,
		OtherUserID: otherID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
}

// handleSendMessage handles POST /chat/send
//
// Messages sent over HTTP land in the same command handler the socket
// uses, so connected recipients still get the realtime push.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	receiverID, err := shared.NewUserID(req.ReceiverID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid receiver id")
		return
	}

	msg, err := s.deps.SendMessageHandler.Handle(r.Context(), command.SendMessageCommand{
		SenderID:   sess.UserID,
		ReceiverID: receiverID,
		Text:       req.Text,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

type markSeenRequest struct {
	From string `json:"from"`
}

// handleMarkSeen handles POST /chat/seen
func (s *Server) handleMarkSeen(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req markSeenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	counterpartID, err := shared.NewUserID(req.From)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid user id")
		return
	}

	result, err := s.deps.MarkSeenHandler.Handle(r.Context(), command.MarkSeenCommand{
		ReaderID:      sess.UserID,
		CounterpartID: counterpartID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetPresence handles GET /chat/presence/{userID}
func (s *Server) handleGetPresence(w http.ResponseWriter, r *http.Request) {
	userID, err := shared.NewUserID(r.PathValue("userID"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid user id")
		return
	}

	online := false
	var lastSeen *time.Time
	if s.deps.Presence != nil {
		// Presence is advisory. A Redis hiccup reads as offline rather
		// than failing the request.
		if got, perr := s.deps.Presence.IsOnline(r.Context(), userID); perr == nil {
			online = got
		}
		if at, perr := s.deps.Presence.LastSeen(r.Context(), userID); perr == nil && !at.IsZero() {
			lastSeen = &at
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"online":    online,
		"last_seen": lastSeen,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError translates domain errors to HTTP statuses. Internal
// failures are logged in full and returned opaque.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsUnauthorized(err):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case shared.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.logger.Error("request failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// decodeBody decodes a JSON request body, answering 400 on garbage.
// Returns false when the response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return false
	}

	return true
}
