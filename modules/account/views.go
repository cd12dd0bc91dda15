package account

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// LoginPageParams contains data for rendering the login page.
type LoginPageParams struct {
	Email       string
	RedirectURL string
	Errors      []string
	Notices     []string
}

// Views renders the pages of the password flow.
type Views struct {
	LoginPage func(LoginPageParams) templ.Component
}

// DefaultViews returns minimal unstyled views.
func DefaultViews() Views {
	return Views{LoginPage: LoginPage}
}

// LoginPage renders the sign-in form with pending flash messages.
func LoginPage(p LoginPageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!doctype html>\n<html>\n<head><title>Sign in</title></head>\n<body>\n")
		for _, msg := range p.Notices {
			b.WriteString(`<p class="notice">` + templ.EscapeString(msg) + "</p>\n")
		}
		for _, msg := range p.Errors {
			b.WriteString(`<p class="error">` + templ.EscapeString(msg) + "</p>\n")
		}
		b.WriteString(`<form method="post">` + "\n")
		b.WriteString(`<input type="hidden" name="redirect_url" value="` + templ.EscapeString(p.RedirectURL) + `">` + "\n")
		b.WriteString(`<label>Email <input type="email" name="email" value="` + templ.EscapeString(p.Email) + `" required></label>` + "\n")
		b.WriteString(`<label>Password <input type="password" name="password" required></label>` + "\n")
		b.WriteString("<button type=\"submit\">Sign in</button>\n</form>\n</body>\n</html>\n")

		_, err := io.WriteString(w, b.String())
		return err
	})
}
