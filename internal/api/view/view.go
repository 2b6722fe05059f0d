// Package view holds the minimal server-rendered pages for the portal.
// Rendering is presentation plumbing, not core behavior; the templates
// exist so the login, registration and landing flows have a surface.
package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>Member Portal</title></head>
<body>
{{if .Username}}
  <h1>Welcome, {{.Username}}</h1>
  <form method="post" action="/logout"><button type="submit">Log out</button></form>
{{else}}
  <h1>Member Portal</h1>
  <p><a href="/login">Log in</a> or <a href="/register">register</a>.</p>
{{end}}
</body>
</html>
`

const loginHTML = `<!DOCTYPE html>
<html>
<head><title>Log in</title></head>
<body>
<h1>Log in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
  <label>Username <input type="text" name="username" required></label>
  <label>Password <input type="password" name="password" required></label>
  <button type="submit">Log in</button>
</form>
<p><a href="/register">Create an account</a></p>
</body>
</html>
`

const registerHTML = `<!DOCTYPE html>
<html>
<head><title>Register</title></head>
<body>
<h1>Register</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/register">
  <label>First name <input type="text" name="first_name" required></label>
  <label>Last name <input type="text" name="last_name" required></label>
  <label>Username <input type="text" name="username" required></label>
  <label>Password <input type="password" name="password" required></label>
  <button type="submit">Register</button>
</form>
<p><a href="/login">Already registered?</a></p>
</body>
</html>
`

// IndexData feeds the landing page. An empty Username renders the
// anonymous variant.
type IndexData struct {
	Username string
}

// FormData feeds the login and register pages; Error carries the
// user-facing failure message, if any.
type FormData struct {
	Error string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates *template.Template
}

func New() *Renderer {
	t := template.New("views")
	template.Must(t.New("index").Parse(indexHTML))
	template.Must(t.New("login").Parse(loginHTML))
	template.Must(t.New("register").Parse(registerHTML))
	return &Renderer{templates: t}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	if r.templates.Lookup(name) == nil {
		return fmt.Errorf("unknown template %q", name)
	}
	return r.templates.ExecuteTemplate(w, name, data)
}
