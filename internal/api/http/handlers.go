package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/peepeep/peepeep-manager/internal/announce"
	"github.com/peepeep/peepeep-manager/internal/apisrv/provider"
	"github.com/peepeep/peepeep-manager/internal/apisrv/waitlist"
	"github.com/peepeep/peepeep-manager/internal/auth/jwt"
	"github.com/peepeep/peepeep-manager/internal/catalog"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

// maxUploadSize bounds license and image uploads.
const maxUploadSize = 10 << 20

type handlers struct {
	waitlist *waitlist.Server
	provider *provider.Server
	board    *announce.Board
}

type ctxKey int

const subjectKey ctxKey = iota

// withOptionalAuth extracts the bearer token subject when one is present.
// Requests without a token pass through unauthenticated.
func (h *handlers) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		sub, err := jwt.VerifyToken(h.provider.JwtAuth, token)
		if err != nil {
			respondError(w, gerr.New(gerr.CodeUnauthorized, "invalid token"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, sub)))
	})
}

// requireAuth rejects requests that carry no valid token.
func (h *handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject(r) == "" {
			respondError(w, gerr.New(gerr.CodeUnauthorized, "authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireOwner rejects requests whose token subject is not the addressed
// provider.
func (h *handlers) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject(r) != strings.ToLower(chi.URLParam(r, "email")) {
			respondError(w, gerr.New(gerr.CodeUnauthorized, "authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func subject(r *http.Request) string {
	sub, _ := r.Context().Value(subjectKey).(string)
	return sub
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- waitlist ---

func (h *handlers) waitlistSignup(w http.ResponseWriter, r *http.Request) {
	var req waitlist.SignupRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Language == "" {
		req.Language = r.Header.Get("Accept-Language")
	}
	resp, err := h.waitlist.Signup(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusCreated
	if resp.AlreadyExists {
		status = http.StatusOK
	}
	respondData(w, status, resp)
}

func (h *handlers) waitlistStatus(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, gerr.New(gerr.CodeInvalidRequest, "code is required"))
		return
	}
	resp, err := h.waitlist.Status(r.Context(), code)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resp)
}

func (h *handlers) trackReferral(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code  string `json:"code"`
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	h.waitlist.TrackReferral(r.Context(), req.Code, req.Email)
	respondData(w, http.StatusAccepted, map[string]bool{"tracked": true})
}

func (h *handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	var req waitlist.ContactRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Language == "" {
		req.Language = r.Header.Get("Accept-Language")
	}
	if err := h.waitlist.SubmitContact(r.Context(), &req); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]bool{"received": true})
}

// --- catalog ---

func (h *handlers) catalogMakes(w http.ResponseWriter, r *http.Request) {
	opts := catalog.WithOther(catalog.Options(catalog.Makes()))
	respondData(w, http.StatusOK, catalog.Filter(opts, r.URL.Query().Get("q")))
}

func (h *handlers) catalogModels(w http.ResponseWriter, r *http.Request) {
	mk := r.URL.Query().Get("make")
	if mk == "" {
		respondError(w, gerr.New(gerr.CodeInvalidRequest, "make is required"))
		return
	}
	opts := catalog.WithOther(catalog.Options(catalog.Models(mk)))
	respondData(w, http.StatusOK, catalog.Filter(opts, r.URL.Query().Get("q")))
}

func (h *handlers) catalogYears(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, catalog.Years())
}

// --- providers ---

func (h *handlers) providerCreate(w http.ResponseWriter, r *http.Request) {
	var req provider.CreateRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Language == "" {
		req.Language = r.Header.Get("Accept-Language")
	}
	resp, err := h.provider.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, resp)
}

func (h *handlers) providerUpdate(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(chi.URLParam(r, "email"))
	var req provider.UpdateRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	resp, err := h.provider.Update(r.Context(), email, &req, subject(r) == email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resp)
}

func (h *handlers) providerGet(w http.ResponseWriter, r *http.Request) {
	resp, err := h.provider.Get(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resp)
}

func (h *handlers) providerVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	h.verifyEmail(w, r, req.Email, req.Token)
}

// providerVerifyEmailGet serves the link from the verification mail.
func (h *handlers) providerVerifyEmailGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.verifyEmail(w, r, q.Get("email"), q.Get("token"))
}

func (h *handlers) verifyEmail(w http.ResponseWriter, r *http.Request, email, token string) {
	if email == "" || token == "" {
		respondError(w, gerr.New(gerr.CodeInvalidRequest, "email and token are required"))
		return
	}
	if err := h.provider.VerifyEmail(r.Context(), email, token); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *handlers) providerUploadLicense(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(chi.URLParam(r, "email"))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, gerr.New(gerr.CodeInvalidRequest, "upload too large or malformed"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, gerr.New(gerr.CodeInvalidRequest, "file field is required"))
		return
	}
	defer file.Close()

	up, err := h.provider.UploadLicense(r.Context(), email, file, header.Size,
		header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, up)
}

func (h *handlers) providerUploadImage(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(chi.URLParam(r, "email"))
	kind := chi.URLParam(r, "kind")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, gerr.New(gerr.CodeInvalidRequest, "upload too large or malformed"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, gerr.New(gerr.CodeInvalidRequest, "file field is required"))
		return
	}
	defer file.Close()

	img, err := h.provider.UploadImage(r.Context(), email, kind, file, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, img)
}

func (h *handlers) providerBadge(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="peepeep-badge.png"`)
	if err := h.provider.Badge(r.Context(), email, w); err != nil {
		respondError(w, err)
		return
	}
}

// --- auth ---

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	resp, err := h.provider.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resp)
}

func (h *handlers) loginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	resp, err := h.provider.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resp)
}

// --- announcement ---

func (h *handlers) announcementGet(w http.ResponseWriter, r *http.Request) {
	n := h.board.Current()
	if n == nil {
		respondData(w, http.StatusOK, nil)
		return
	}
	respondData(w, http.StatusOK, n)
}

func (h *handlers) announcementSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message    string `json:"message"`
		Kind       string `json:"kind"`
		TTLSeconds int    `json:"ttlSeconds"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, gerr.New(gerr.CodeInvalidRequest, "message is required"))
		return
	}
	if req.Kind == "" {
		req.Kind = "info"
	}
	switch req.Kind {
	case "success", "error", "info":
	default:
		respondError(w, gerr.New(gerr.CodeInvalidRequest, fmt.Sprintf("unknown kind %q", req.Kind)))
		return
	}
	n := h.board.Set(req.Message, req.Kind, time.Duration(req.TTLSeconds)*time.Second)
	respondData(w, http.StatusOK, n)
}

func (h *handlers) announcementDismiss(w http.ResponseWriter, r *http.Request) {
	h.board.Dismiss()
	respondData(w, http.StatusOK, map[string]bool{"dismissed": true})
}
