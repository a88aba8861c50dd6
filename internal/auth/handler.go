package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/pkg"

	log "github.com/sirupsen/logrus"
)

const TokenHeader = "X-FITCOACH-TOKEN"

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth

type loginService interface {
	Login(ctx context.Context, creds Credentials, createdAt time.Time) (*Context, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type Handler struct {
	service loginService
}

type LoginResponse struct {
	Token    string `json:"token"`
	ClientID int64  `json:"clientId"`
	Role     string `json:"role"`
}

func NewHandler(service loginService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid login data", http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "username and password required", http.StatusBadRequest)
		return
	}

	ac, err := h.service.Login(r.Context(), creds, time.Now())
	if err != nil {
		if errors.Is(err, ErrWrongPassword) {
			http.Error(w, "wrong username or password", http.StatusUnauthorized)
			return
		}
		log.Errorf("failed to login %s: %s", creds.Username, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(LoginResponse{
		Token:    ac.Token,
		ClientID: ac.ClientID,
		Role:     ac.Role,
	})
	if err != nil {
		log.Errorf("failed to marshal login response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(TokenHeader)
	if token == "" {
		http.Error(w, "no token", http.StatusBadRequest)
		return
	}

	loggedOut, err := h.service.Logout(r.Context(), token)
	if err != nil {
		log.Errorf("failed to logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		http.Error(w, "not logged in", http.StatusNotFound)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}
