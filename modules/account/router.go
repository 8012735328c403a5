package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authgate/pkg/binder"
	"github.com/dmitrymomot/authgate/pkg/errorsink"
	"github.com/dmitrymomot/authgate/pkg/httpjson"
	"github.com/dmitrymomot/authgate/pkg/jwt"
)

// Mountable is a sub-application the gateway mounts under a prefix.
type Mountable interface {
	Handle() http.Handler
}

// Handler exposes the Service over JSON.
type Handler struct {
	svc    *Service
	tokens *jwt.Service
	sink   *errorsink.Sink
}

var _ Mountable = (*Handler)(nil)

// NewHandler creates the HTTP adapter. tokens verifies bearer tokens on the
// authenticated routes.
func NewHandler(svc *Service, tokens *jwt.Service, sink *errorsink.Sink) *Handler {
	if sink == nil {
		sink = errorsink.New(nil)
	}
	return &Handler{svc: svc, tokens: tokens, sink: sink}
}

// Handle returns the auth router:
//
//	POST /register
//	POST /login
//	GET  /me       (Bearer)
//	PUT  /profile  (Bearer)
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.NotFound(httpjson.NotFound)

	r.Post("/register", h.sink.Wrap(h.register))
	r.Post("/login", h.sink.Wrap(h.login))

	r.Group(func(r chi.Router) {
		r.Use(jwt.Middleware(h.tokens))
		r.Get("/me", h.sink.Wrap(h.me))
		r.Put("/profile", h.sink.Wrap(h.updateProfile))
	})

	return r
}

type sessionResponse struct {
	Message string `json:"message"`
	*Session
}

type userResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) error {
	var in RegisterInput
	if err := binder.JSON(r, &in); err != nil {
		return err
	}
	s, err := h.svc.Register(r.Context(), in)
	if err != nil {
		return err
	}
	return httpjson.Write(w, http.StatusCreated, sessionResponse{Message: "User registered successfully", Session: s})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var in LoginInput
	if err := binder.JSON(r, &in); err != nil {
		return err
	}
	s, err := h.svc.Login(r.Context(), in)
	if err != nil {
		return err
	}
	return httpjson.Write(w, http.StatusOK, sessionResponse{Message: "Login successful", Session: s})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) error {
	u, err := h.svc.Profile(r.Context(), jwt.SubjectFromContext(r.Context()))
	if err != nil {
		return err
	}
	return httpjson.Write(w, http.StatusOK, userResponse{Message: "OK", User: u})
}

type profileRequest struct {
	Name         *string `json:"name"`
	ProfileImage *string `json:"profileImage"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) error {
	var in profileRequest
	if err := binder.JSON(r, &in); err != nil {
		return err
	}
	u, err := h.svc.UpdateProfile(r.Context(), jwt.SubjectFromContext(r.Context()), ProfileUpdate{
		Name:         in.Name,
		ProfileImage: in.ProfileImage,
	})
	if err != nil {
		return err
	}
	return httpjson.Write(w, http.StatusOK, userResponse{Message: "Profile updated", User: u})
}
