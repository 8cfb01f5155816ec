package rest

import (
	"fmt"
	"net/http"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// loginForm — минимальная HTML-форма для ручного входа через браузер.
const loginForm = `<form method="post">
    <p><input type="text" name="username"></p>
    <p><input type="password" name="password"></p>
    <p><input type="submit" value="Login"></p>
</form>`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	identity := callerIdentity(r)
	if identity.Authenticated() {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "Logged in as: %s", identity.Username)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"logged_in": false})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(loginForm))
}

// handleLogin проверяет пару логин/пароль из формы и кладёт сессионный
// токен в cookie. Успешный вход завершается редиректом на индекс.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed form body"})
		return
	}

	identity, err := s.creds.Authenticate(r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.WithField("username", identity.Username).Info("login")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout гасит cookie. Требует аутентифицированного вызывающего.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity := callerIdentity(r)
	if !identity.Authenticated() {
		s.writeError(w, domain.ErrUnauthenticated)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.WithField("username", identity.Username).Info("logout")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
