package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/service"
)

// AuthHandler serves login and biometric opt-in
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/auth/api/v1/login" && r.Method == http.MethodPost:
		h.Login(w, r)
	case r.URL.Path == "/auth/api/v1/biometric" && r.Method == http.MethodGet:
		h.BiometricStatus(w, r)
	case r.URL.Path == "/auth/api/v1/biometric/enable" && r.Method == http.MethodPost:
		h.EnableBiometric(w, r)
	case r.URL.Path == "/auth/api/v1/biometric/login" && r.Method == http.MethodPost:
		h.BiometricLogin(w, r)
	case r.URL.Path == "/auth/api/v1/biometric/disable" && r.Method == http.MethodPost:
		h.DisableBiometric(w, r)
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, maxJSONBody, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if payload.Email == "" || payload.Password == "" {
		writeError(w, h.logger, "log in", domain.ValidationErrors{"email": "Email and password are required"})
		return
	}

	res, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, h.logger, "log in", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

func (h *AuthHandler) BiometricStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.auth.BiometricStatus(r.Context())
	if err != nil {
		writeError(w, h.logger, "check biometric settings", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(status))
}

func (h *AuthHandler) EnableBiometric(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := readBodyJSON(r, maxJSONBody, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := h.auth.EnableBiometric(r.Context(), payload.Email); err != nil {
		writeError(w, h.logger, "enable biometric login", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"enabled": true}))
}

func (h *AuthHandler) BiometricLogin(w http.ResponseWriter, r *http.Request) {
	email, err := h.auth.BiometricLogin(r.Context())
	if err != nil {
		writeError(w, h.logger, "authenticate", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"email": email}))
}

func (h *AuthHandler) DisableBiometric(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.DisableBiometric(r.Context()); err != nil {
		writeError(w, h.logger, "disable biometric login", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"enabled": false}))
}
