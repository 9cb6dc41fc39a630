package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/auth"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/storage"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("Error fetching user %s: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !user.IsActive || !auth.VerifyPassword(user.HashedPassword, req.Password) {
		if s.auditor != nil {
			s.auditor.RecordLogin(r.Context(), user.ID, clientIP(r), r.UserAgent(), false)
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.sessions.Create(r.Context(), user)
	if err != nil {
		log.Printf("Error creating session for %s: %v", user.Username, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := s.store.TouchLastLogin(r.Context(), user.ID); err != nil {
		log.Printf("Error updating last login for %s: %v", user.Username, err)
	}
	if s.auditor != nil {
		s.auditor.RecordLogin(r.Context(), user.ID, clientIP(r), r.UserAgent(), true)
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if err := s.sessions.Revoke(r.Context(), bearerToken(r)); err != nil {
		log.Printf("Error revoking session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if s.auditor != nil && sess != nil {
		s.auditor.RecordLogout(r.Context(), sess.UserID, clientIP(r), r.UserAgent())
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	user, err := s.store.GetUser(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		log.Printf("Error fetching user %d: %v", sess.UserID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type registerRequest struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		FullName:       req.FullName,
		Role:           req.Role,
		IsActive:       true,
	}

	if err := s.store.InsertUser(r.Context(), user); err != nil {
		log.Printf("Error creating user %s: %v", req.Username, err)
		writeError(w, http.StatusConflict, "username or email already taken")
		return
	}

	s.recordAction(r, models.AuditCreate, "user", user.ID)

	writeJSON(w, http.StatusCreated, user)
}
