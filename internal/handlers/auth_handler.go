package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"shopcartConsole/internal/models"
	"shopcartConsole/utils"
)

// CookieName holds the operator session token.
const CookieName = "console_token"

type AuthHandler struct {
	Tokens       *utils.Manager
	Operator     string
	PasswordHash string
	TTL          time.Duration
	Pages        *Pages
}

type loginData struct {
	Operator string
	Error    string
}

type credentials struct {
	Operator string `json:"operator"`
	Password string `json:"password"`
}

// Enabled reports whether console routes require a signed-in operator.
func (h *AuthHandler) Enabled() bool {
	return h != nil && h.Tokens != nil && h.PasswordHash != ""
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if err := h.Pages.Render(w, http.StatusOK, "login", loginData{}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	creds := credentials{
		Operator: strings.TrimSpace(r.PostForm.Get("operator")),
		Password: r.PostForm.Get("password"),
	}

	token, err := h.signIn(creds)
	if err != nil {
		if rerr := h.Pages.Render(w, http.StatusUnauthorized, "login", loginData{Operator: creds.Operator, Error: "Invalid operator or password"}); rerr != nil {
			http.Error(w, rerr.Error(), http.StatusInternalServerError)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(h.TTL),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginJSON returns a bearer token for scripted access.
func (h *AuthHandler) LoginJSON(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	token, err := h.signIn(creds)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Authenticate returns the operator a request was signed in as.
func (h *AuthHandler) Authenticate(r *http.Request) (string, error) {
	token := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	} else if c, err := r.Cookie(CookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		return "", models.ErrUnauthorized
	}
	operator, err := h.Tokens.Parse(token)
	if err != nil {
		return "", models.ErrUnauthorized
	}
	return operator, nil
}

func (h *AuthHandler) signIn(creds credentials) (string, error) {
	if !h.Enabled() {
		return "", models.ErrUnauthorized
	}
	if creds.Operator != h.Operator || !utils.CheckPassword(h.PasswordHash, creds.Password) {
		return "", models.ErrInvalidCredentials
	}
	return h.Tokens.NewJWT(creds.Operator, h.TTL)
}
