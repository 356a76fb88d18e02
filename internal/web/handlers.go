// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/venturalabs/ventura/internal/auth"
	"github.com/venturalabs/ventura/internal/observability"
	"github.com/venturalabs/ventura/internal/study"
	"github.com/venturalabs/ventura/pkg/errutil"
)

// maxBodyBytes caps request bodies; every payload here is small.
const maxBodyBytes = 64 * 1024

// Handler serves the JSON API. The UI layers (pages, charts,
// leaderboards) are external collaborators that consume these routes.
type Handler struct {
	auth         *auth.Service
	study        *study.Service
	cookieSecure bool
	landing      string
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewHandler creates the API handler.
func NewHandler(authSvc *auth.Service, studySvc *study.Service, cookieSecure bool, landing string, logger *slog.Logger, metrics *observability.Metrics) (*Handler, error) {
	if authSvc == nil {
		return nil, oops.Code("WEB_HANDLER_INVALID").Errorf("auth service is required")
	}
	if studySvc == nil {
		return nil, oops.Code("WEB_HANDLER_INVALID").Errorf("study service is required")
	}
	if landing == "" {
		landing = "/"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:         authSvc,
		study:        studySvc,
		cookieSecure: cookieSecure,
		landing:      landing,
		logger:       logger,
		metrics:      metrics,
	}, nil
}

// Routes registers every API route on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/sign-up", h.handleSignUp)
	mux.HandleFunc("POST /api/auth/sign-in", h.handleSignIn)
	mux.HandleFunc("POST /api/auth/demo", h.handleDemoSignIn)
	mux.HandleFunc("POST /api/auth/sign-out", h.handleSignOut)
	mux.HandleFunc("GET /api/auth/me", h.handleCurrentUser)

	mux.HandleFunc("GET /api/study-sessions", h.handleListStudySessions)
	mux.HandleFunc("POST /api/study-sessions", h.handleStartStudySession)
	mux.HandleFunc("PATCH /api/study-sessions/{id}", h.handleFinishStudySession)
	mux.HandleFunc("GET /api/analytics", h.handleAnalytics)

	mux.HandleFunc("GET /api/rooms", h.handleListRooms)
	mux.HandleFunc("POST /api/rooms", h.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{id}", h.handleGetRoom)
	mux.HandleFunc("POST /api/rooms/{id}/join", h.handleJoinRoom)
	mux.HandleFunc("GET /api/rooms/{id}/participants", h.handleParticipants)
	mux.HandleFunc("GET /api/rooms/{id}/messages", h.handleMessages)
	mux.HandleFunc("POST /api/rooms/{id}/messages", h.handleSendMessage)

	mux.HandleFunc("GET /api/leaderboard", h.handleLeaderboard)

	return mux
}

// -- auth --

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, token, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.recordSignIn("signup")
	writeSessionCookie(w, token, session.ExpiresAt, h.cookieSecure)
	h.writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, token, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.recordSignIn("password")
	writeSessionCookie(w, token, session.ExpiresAt, h.cookieSecure)
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleDemoSignIn(w http.ResponseWriter, r *http.Request) {
	session, token, err := h.auth.DemoSignIn(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.recordSignIn("demo")
	writeSessionCookie(w, token, session.ExpiresAt, h.cookieSecure)
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), sessionToken(r)); err != nil {
		// The cookie is cleared regardless; the server row can be
		// swept later.
		errutil.LogWarn(h.logger, "sign-out failed", err)
	}
	clearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, h.landing, http.StatusSeeOther)
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, userResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	})
}

// -- study sessions --

type studySessionResponse struct {
	ID              string     `json:"id"`
	Subject         string     `json:"subject"`
	SessionName     string     `json:"session_name"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds *int64     `json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toStudySessionResponse(s *study.Session) studySessionResponse {
	resp := studySessionResponse{
		ID:          s.ID.String(),
		Subject:     s.Subject,
		SessionName: s.SessionName,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		CreatedAt:   s.CreatedAt,
	}
	if s.Duration != nil {
		secs := int64(*s.Duration / time.Second)
		resp.DurationSeconds = &secs
	}
	return resp
}

func (h *Handler) handleListStudySessions(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	sessions, err := h.study.ListSessions(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]studySessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toStudySessionResponse(s))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type startStudySessionRequest struct {
	Subject     string `json:"subject"`
	SessionName string `json:"session_name"`
}

func (h *Handler) handleStartStudySession(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req startStudySessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.study.StartSession(r.Context(), user.ID, req.Subject, req.SessionName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toStudySessionResponse(session))
}

type finishStudySessionRequest struct {
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
}

func (h *Handler) handleFinishStudySession(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req finishStudySessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.study.FinishSession(r.Context(), id, user.ID, req.EndTime, time.Duration(req.DurationSeconds)*time.Second)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	rng := study.Range(r.URL.Query().Get("range"))
	if rng == "" {
		rng = study.RangeWeek
	}

	sessions, err := h.study.SessionsSince(r.Context(), user.ID, rng)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]studySessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toStudySessionResponse(s))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// -- rooms --

type roomResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	CreatedBy        string    `json:"created_by"`
	IsPrivate        bool      `json:"is_private"`
	RoomCode         string    `json:"room_code,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	ParticipantCount int       `json:"participant_count"`
}

// toRoomResponse converts a room, exposing the join code only to its
// creator.
func toRoomResponse(room *study.Room, viewer ulid.ULID) roomResponse {
	resp := roomResponse{
		ID:               room.ID.String(),
		Name:             room.Name,
		Description:      room.Description,
		CreatedBy:        room.CreatedBy.String(),
		IsPrivate:        room.IsPrivate,
		CreatedAt:        room.CreatedAt,
		ParticipantCount: room.ParticipantCount,
	}
	if room.CreatedBy.Compare(viewer) == 0 {
		resp.RoomCode = room.RoomCode
	}
	return resp
}

func (h *Handler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	rooms, err := h.study.ListRooms(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomResponse(room, user.ID))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type createRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req createRoomRequest
	if !h.decode(w, r, &req) {
		return
	}

	room, err := h.study.CreateRoom(r.Context(), user.ID, req.Name, req.Description, req.IsPrivate)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toRoomResponse(room, user.ID))
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	room, err := h.study.GetRoom(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toRoomResponse(room, user.ID))
}

type joinRoomRequest struct {
	RoomCode string `json:"room_code"`
}

func (h *Handler) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	// The code is only needed for private rooms, so the body is optional.
	var req joinRoomRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	if err := h.study.JoinRoom(r.Context(), id, user.ID, req.RoomCode); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type participantResponse struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (h *Handler) handleParticipants(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	participants, err := h.study.Participants(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]participantResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, participantResponse{
			UserID:    p.UserID.String(),
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
			JoinedAt:  p.JoinedAt,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

type messageResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"message"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(m *study.Message) messageResponse {
	return messageResponse{
		ID:        m.ID.String(),
		UserID:    m.UserID.String(),
		Body:      m.Body,
		Name:      m.Name,
		AvatarURL: m.AvatarURL,
		CreatedAt: m.CreatedAt,
	}
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.study.Messages(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req sendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	message, err := h.study.SendMessage(r.Context(), id, user.ID, req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// The author's display fields come from the resolved user; the
	// store only holds the reference.
	message.Name = user.Name
	message.AvatarURL = user.AvatarURL
	h.writeJSON(w, http.StatusCreated, toMessageResponse(message))
}

// -- leaderboard --

type leaderboardEntryResponse struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatar_url"`
	TotalStudyTime int64  `json:"total_study_time"`
	TotalSessions  int    `json:"total_sessions"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}

	entries, err := h.study.Leaderboard(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryResponse{
			UserID:         e.UserID.String(),
			Name:           e.Name,
			AvatarURL:      e.AvatarURL,
			TotalStudyTime: int64(e.TotalStudy / time.Second),
			TotalSessions:  e.TotalSessions,
			CurrentStreak:  e.CurrentStreak,
			LongestStreak:  e.LongestStreak,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// -- helpers --

// currentUser resolves the request's session cookie to a user, writing
// a 401 when there is none.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, err := h.auth.CurrentUser(r.Context(), sessionToken(r))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return user, true
}

// pathID parses a ULID path segment, writing a 404 on garbage. An
// unparseable ID can't name an existing resource, so "not found" is
// the honest answer.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (ulid.ULID, bool) {
	id, err := ulid.Parse(r.PathValue(name))
	if err != nil {
		h.writeError(w, oops.Code("WEB_INVALID_ID").
			With("segment", name).
			Wrap(auth.ErrNotFound))
		return ulid.ULID{}, false
	}
	return id, true
}

// decode reads a JSON request body, writing a 400 on malformed input.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed request body"})
		return false
	}
	return true
}

// decodeOptional is decode for routes whose body may be omitted
// entirely; a missing body leaves dst at its zero value.
func (h *Handler) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed request body"})
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errutil.LogWarn(h.logger, "response encode failed", err)
	}
}

// writeError maps domain errors to HTTP statuses. Client-addressable
// errors carry their message; infrastructure failures are opaque.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		h.writeJSON(w, http.StatusConflict, map[string]any{"error": auth.ErrDuplicateEmail.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": auth.ErrInvalidCredentials.Error()})
	case errors.Is(err, auth.ErrNotAuthenticated):
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": auth.ErrNotAuthenticated.Error()})
	case errors.Is(err, auth.ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, map[string]any{"error": auth.ErrForbidden.Error()})
	case errors.Is(err, auth.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]any{"error": auth.ErrNotFound.Error()})
	case errors.Is(err, auth.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	default:
		errutil.LogError(h.logger, "request failed", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

// recordSignIn increments the sign-in counter when metrics are enabled.
func (h *Handler) recordSignIn(method string) {
	if h.metrics != nil {
		h.metrics.SignInsTotal.WithLabelValues(method).Inc()
	}
}
