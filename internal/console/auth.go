package console

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/novapm/internal/user"
	"github.com/kazz187/novapm/pkg/cerr"
)

func (c *Console) authRoutes(r chi.Router) {
	r.Get("/login", c.loginForm)
	r.Post("/login", c.login)
	r.Get("/signup", c.signupForm)
	r.Post("/signup", c.signup)
	r.Post("/logout", c.logout)
}

type loginPage struct {
	Page
	Username string
}

func (c *Console) loginForm(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "Sign in"}
	if r.URL.Query().Get("registered") != "" {
		page.Notice = "Account created. Sign in to continue."
	}
	c.render(w, r, http.StatusOK, "login", loginPage{Page: page})
}

// login stores the issued tokens and lands the user on their role's console.
func (c *Console) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := loginPage{Page: Page{Title: "Sign in"}}
	if err := r.ParseForm(); err != nil {
		data.Alert = "Invalid form"
		c.render(w, r, http.StatusBadRequest, "login", data)
		return
	}
	data.Username = strings.TrimSpace(r.PostFormValue("username"))

	tokens, err := c.api.Login(ctx, data.Username, r.PostFormValue("password"))
	if err != nil {
		c.logFormError(ctx, "login", err)
		data.Alert = cerr.Message(err, "Invalid username or password")
		c.render(w, r, failureStatus(err), "login", data)
		return
	}
	c.sessions.Set(w, tokens.Access, tokens.Refresh)

	me, err := c.api.Me(ctx, tokens.Access)
	if err != nil {
		c.logFormError(ctx, "load profile", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, me.Role.Home(), http.StatusSeeOther)
}

type signupPage struct {
	Page
	Form  user.Registration
	Roles []user.Role
}

func (c *Console) signupForm(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "signup", signupPage{
		Page:  Page{Title: "Create account"},
		Form:  user.Registration{Role: user.RoleDeveloper},
		Roles: user.Roles,
	})
}

func (c *Console) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := signupPage{Page: Page{Title: "Create account"}, Roles: user.Roles}
	if err := r.ParseForm(); err != nil {
		data.Alert = "Invalid form"
		c.render(w, r, http.StatusBadRequest, "signup", data)
		return
	}
	data.Form = user.Registration{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     user.Role(r.PostFormValue("role")),
	}
	if msg := data.Form.Validate(); msg != "" {
		data.Alert = msg
		data.Form.Password = ""
		c.render(w, r, http.StatusBadRequest, "signup", data)
		return
	}
	if _, err := c.api.Register(ctx, data.Form); err != nil {
		c.logFormError(ctx, "signup", err)
		data.Alert = cerr.Message(err, "Failed to create account")
		data.Form.Password = ""
		c.render(w, r, failureStatus(err), "signup", data)
		return
	}
	http.Redirect(w, r, "/auth/login?registered=1", http.StatusSeeOther)
}

func (c *Console) logout(w http.ResponseWriter, r *http.Request) {
	c.sessions.Clear(w)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}
