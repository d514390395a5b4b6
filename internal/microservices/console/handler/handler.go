package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"restaurant-admin/internal/client"
	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/controller"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/session"
	"restaurant-admin/internal/shell"
)

const (
	msgFillAll      = "Por favor, preencha todos os campos."
	msgInvalidLogin = "Senha ou email invalido!"
)

// Authenticator is the login call of the API client.
type Authenticator interface {
	Login(ctx context.Context, login, senha string) (client.LoginResult, error)
}

type Handler struct {
	shell     *shell.Shell
	auth      Authenticator
	lg        *logger.Logger
	tmpl      map[string]*template.Template
	marketing template.HTML
}

func New(sh *shell.Shell, auth Authenticator, lg *logger.Logger) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	body, err := renderMarkdown(marketingMD)
	if err != nil {
		return nil, err
	}
	return &Handler{shell: sh, auth: auth, lg: lg, tmpl: tmpl, marketing: body}, nil
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(httpx.RequestLogger(h.lg))

	r.Get("/", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/marketing", h.Marketing)
	r.Get("/signup", h.SignUp)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/home", func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/", h.Home)
		r.Route("/{page}", func(r chi.Router) {
			r.Get("/", h.Page)
			r.Post("/save", h.Save)
			r.Post("/edit/{id}", h.Edit)
			r.Post("/delete/confirm", h.ConfirmDelete)
			r.Post("/delete/cancel", h.CancelDelete)
			r.Post("/delete/{id}", h.RequestDelete)
			r.Post("/reset", h.Reset)
		})
	})
	return r
}

func (h *Handler) log(r *http.Request) *logger.Logger { return logger.FromContext(r.Context(), h.lg) }

type frame struct {
	Title   string
	Menu    []shell.MenuEntry
	Current string
}

func (h *Handler) frame(title string) frame {
	return frame{Title: title, Menu: h.shell.Menu(), Current: h.shell.Current()}
}

// requireSession renders the "go to login" page instead of any dashboard
// content while nobody is signed in.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.shell.SignedIn() {
			h.render(w, r, http.StatusUnauthorized, "gate.html", frame{Title: "Login necessário"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginData struct {
	frame
	Email string
	Error string
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", loginData{frame: frame{Title: "Login"}})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	senha := r.PostFormValue("senha")
	data := loginData{frame: frame{Title: "Login"}, Email: email}

	if email == "" || senha == "" {
		data.Error = msgFillAll
		h.render(w, r, http.StatusBadRequest, "login.html", data)
		return
	}

	res, err := h.auth.Login(r.Context(), email, senha)
	if err != nil || !res.Authorized {
		if err != nil && !errors.Is(err, client.ErrInvalidCredentials) {
			h.log(r).Error("login_failed", err, nil)
		}
		data.Error = msgInvalidLogin
		h.render(w, r, http.StatusUnauthorized, "login.html", data)
		return
	}

	if err := h.shell.Session().SignIn(res.UserID); err != nil && !errors.Is(err, session.ErrAlreadySignedIn) {
		h.log(r).Error("session_sign_in_failed", err, nil)
		data.Error = msgInvalidLogin
		h.render(w, r, http.StatusUnauthorized, "login.html", data)
		return
	}
	h.log(r).Info("user_signed_in", map[string]any{"user_id": res.UserID})
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *Handler) Marketing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "marketing.html", struct {
		frame
		Body template.HTML
	}{frame: frame{Title: "Restaurante"}, Body: h.marketing})
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup.html", frame{Title: "Criar conta"})
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	_, _ = h.shell.Select(r.Context(), shell.Home)
	h.render(w, r, http.StatusOK, "home.html", h.frame("Dashboard"))
}

type pageData struct {
	frame
	View      controller.View
	Fields    []domain.Field
	Columns   []domain.Field
	Options   map[string][]controller.Option
	Queries   map[string]string
	EmptyText string
}

// Page switches the dashboard to the selected resource and mounts it.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "page")
	c, err := h.shell.Select(r.Context(), key)
	if errors.Is(err, shell.ErrUnknownPage) {
		httpx.WriteMessage(w, http.StatusNotFound, "página não encontrada")
		return
	}
	if key == shell.Home {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	s := c.Schema()
	data := pageData{
		frame:     h.frame(s.Title),
		View:      c.View(),
		Options:   map[string][]controller.Option{},
		Queries:   map[string]string{},
		EmptyText: controller.EmptyText,
	}
	for _, f := range s.Fields {
		if !f.FromSession {
			data.Fields = append(data.Fields, f)
		}
		if f.Kind != domain.KindPassword {
			data.Columns = append(data.Columns, f)
		}
		if f.Kind == domain.KindRef && !f.FromSession {
			q := r.URL.Query().Get("busca_" + f.Name)
			data.Queries[f.Name] = q
			opts, err := c.Options(r.Context(), f.Name, q)
			if err != nil {
				h.log(r).Warn("options_failed", map[string]any{"field": f.Name, "error": err.Error()})
				continue
			}
			data.Options[f.Name] = opts
		}
	}
	h.render(w, r, http.StatusOK, "page.html", data)
}

// page resolves {page} for the form endpoints.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) (*controller.Controller, bool) {
	c, ok := h.shell.Page(chi.URLParam(r, "page"))
	if !ok {
		httpx.WriteMessage(w, http.StatusNotFound, "página não encontrada")
	}
	return c, ok
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/home/"+chi.URLParam(r, "page"), http.StatusSeeOther)
}

// Save copies every form field into the draft and submits it. Unchecked
// checkboxes are absent from the form and become false.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	c, ok := h.page(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "formulário inválido")
		return
	}
	for _, f := range c.Schema().Fields {
		if f.FromSession {
			continue
		}
		if err := c.Change(f.Name, r.PostForm.Get(f.Name)); err != nil {
			h.log(r).Warn("change_rejected", map[string]any{"field": f.Name, "error": err.Error()})
		}
	}
	_ = c.Submit(r.Context())
	h.back(w, r)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.page(w, r)
	if !ok {
		return
	}
	_ = c.Edit(r.Context(), chi.URLParam(r, "id"))
	h.back(w, r)
}

func (h *Handler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.page(w, r)
	if !ok {
		return
	}
	c.RequestDelete(chi.URLParam(r, "id"))
	h.back(w, r)
}

func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.page(w, r)
	if !ok {
		return
	}
	_ = c.ConfirmDelete(r.Context())
	h.back(w, r)
}

func (h *Handler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.page(w, r)
	if !ok {
		return
	}
	c.CancelDelete()
	h.back(w, r)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	c, ok := h.page(w, r)
	if !ok {
		return
	}
	c.Reset()
	h.back(w, r)
}
