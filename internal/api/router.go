package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Get("/register", app.RegisterPageHandler)
	r.Post("/register", app.RegisterHandler)
	r.Get("/login", app.LoginPageHandler)
	r.Post("/login", app.LoginHandler)
	r.Post("/logout", app.LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(app.RequireAuth)

		r.Get("/", app.HomeHandler)
		r.Post("/upload", app.UploadHandler)
		r.Post("/generate", app.GenerateHandler)
		r.Get("/reels/list", app.ReelListPartialHandler)
		r.Get("/reels/{id}", app.WatchReelHandler)
		r.Get("/reels/{id}/stream", app.StreamReelHandler)
		r.Get("/reels/{id}/download", app.DownloadReelHandler)
		r.Post("/reels/{id}/delete", app.DeleteReelHandler)
		r.Get("/profile", app.ProfileHandler)
		r.Get("/profile/picture", app.ProfilePicHandler)
	})

	fileServer := http.FileServer(http.Dir("./web/static"))
	r.Handle("/static/*", http.StripPrefix("/static", fileServer))

	return r
}

// RequireAuth redirects anonymous requests to the login page.
func (app *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.Sessions.CurrentEmail(r) == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
