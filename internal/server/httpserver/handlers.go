package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lunamood/lunamood/internal/common"
	"github.com/lunamood/lunamood/internal/moonphase"
	"github.com/lunamood/lunamood/internal/server/auth"
	"github.com/lunamood/lunamood/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// Platform is set to "ios" by the shared login flow when the native
	// wrapper signs in through the web form; the response then also
	// carries the bearer token.
	Platform string `json:"platform,omitempty"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	// GuestID lets a fresh account claim the moods logged anonymously on
	// this device.
	GuestID string `json:"guestId,omitempty"`
}

type loginResponse struct {
	User *models.User `json:"user"`
	// IOSAuthToken is present only for platform == "ios".
	IOSAuthToken string `json:"iosAuthToken,omitempty"`
}

type iosLoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type authStatusResponse struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *models.User `json:"user"`
}

type createMoodRequest struct {
	Mood    string `json:"mood"`
	Note    string `json:"note,omitempty"`
	GuestID string `json:"guestId,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.writeError(w, http.StatusConflict, "username is taken")
			return
		}
		s.internalError(w, r, err)
		return
	}

	if req.GuestID != "" {
		if claimed, err := s.moods.Claim(r.Context(), req.GuestID, user.ID); err != nil {
			s.log.Warn(r.Context(), "guest entry claim failed", "guestId", req.GuestID, "error", err)
		} else if claimed > 0 {
			s.log.Info(r.Context(), "guest entries claimed", "count", claimed, "userId", user.ID)
		}
	}

	s.openSession(w, user.ID)
	s.writeJSON(w, http.StatusCreated, loginResponse{User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		auth.Unauthorized(w)
		return
	}

	resp := loginResponse{User: user}
	if req.Platform == "ios" {
		tok, err := s.users.IssueNativeToken(r.Context(), user)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		resp.IOSAuthToken = tok
	}

	s.openSession(w, user.ID)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIOSLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		auth.Unauthorized(w)
		return
	}

	tok, err := s.users.IssueNativeToken(r.Context(), user)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, iosLoginResponse{Token: tok, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		auth.Unauthorized(w)
		return
	}
	if sessionID, err := s.cookies.Decode(cookie.Value); err == nil {
		s.sessionStore.Delete(sessionID)
	}
	http.SetCookie(w, s.cookies.ExpiredCookie())
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleAuthStatus answers "who am I" for both platforms. It never 401s:
// an unproven identity is reported as anonymous with a 200 so the client
// state machine can settle without error handling.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	resp := authStatusResponse{}
	if user, err := s.authmw.Resolve(r); err == nil {
		resp.IsAuthenticated = true
		resp.User = user
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateMood(w http.ResponseWriter, r *http.Request) {
	var req createMoodRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	var userID *int64
	guestID := req.GuestID
	if guestID == "" {
		guestID = r.URL.Query().Get("guestId")
	}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		userID = &user.ID
		guestID = ""
	} else if guestID == "" {
		auth.Unauthorized(w)
		return
	}

	entry, err := s.moods.Log(r.Context(), userID, guestID, req.Mood, req.Note)
	if err != nil {
		if errors.Is(err, common.ErrorIncorrectInput) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListMoods(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		entries, err := s.moods.ListForUser(r.Context(), user.ID)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, entries)
		return
	}

	guestID := r.URL.Query().Get("guestId")
	if guestID == "" {
		auth.Unauthorized(w)
		return
	}
	entries, err := s.moods.ListForGuest(r.Context(), guestID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	summary, err := s.moods.Summary(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMoonPhase(w http.ResponseWriter, r *http.Request) {
	at := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, raw)
		}
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD or RFC 3339")
			return
		}
		at = parsed
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"date":         at.Format(time.RFC3339),
		"phase":        moonphase.At(at).String(),
		"fraction":     moonphase.Fraction(at),
		"illumination": moonphase.Illumination(at),
	})
}

func (s *Server) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	key, url, err := s.attachments.PresignedPutURL(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"key": key, "uploadUrl": url})
}

func (s *Server) handleAttachmentURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		s.writeError(w, http.StatusBadRequest, "key is required")
		return
	}
	url, err := s.attachments.PresignedGetURL(r.Context(), key)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// --- helpers below ---

func (s *Server) openSession(w http.ResponseWriter, userID int64) {
	session := s.sessionStore.Create(userID)
	value, err := s.cookies.Encode(session.ID)
	if err != nil {
		s.log.Error(context.Background(), "session cookie encode failed", "error", err)
		return
	}
	http.SetCookie(w, s.cookies.NewCookie(value))
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error(context.Background(), "response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal error")
}
