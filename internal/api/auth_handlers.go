package api

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/nfnt/resize"

	"github.com/reelcut/reelcut/internal/account"
	"github.com/reelcut/reelcut/internal/database"
	"github.com/reelcut/reelcut/internal/models"
)

const (
	maxProfilePicSize = 5 << 20
	thumbnailSize     = 100
)

func (app *App) RegisterPageHandler(w http.ResponseWriter, r *http.Request) {
	app.renderTemplate(w, "register.html", nil)
}

func (app *App) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProfilePicSize); err != nil {
		app.renderRegisterError(w, "Form too large")
		return
	}

	input := account.RegistrationInput{
		Username:    r.FormValue("username"),
		Password:    r.FormValue("password"),
		Email:       r.FormValue("email"),
		PhoneNo:     r.FormValue("phone_no"),
		DateOfBirth: r.FormValue("date_of_birth"),
		Profession:  r.FormValue("profession"),
		Gender:      r.FormValue("gender"),
	}

	if err := account.ValidateRegistration(input); err != nil {
		app.renderRegisterError(w, err.Error())
		return
	}

	if _, err := app.UserRepo.GetUserByEmail(input.Email); err == nil {
		app.renderRegisterError(w, "An account with this email already exists")
		return
	} else if !errors.Is(err, database.ErrUserNotFound) {
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	var pic []byte
	if file, _, err := r.FormFile("profile_pic"); err == nil {
		defer file.Close()
		pic, err = makeThumbnail(file)
		if err != nil {
			app.renderRegisterError(w, "Profile picture must be a valid image")
			return
		}
	}

	hash, err := account.HashPassword(input.Password)
	if err != nil {
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		PhoneNo:      input.PhoneNo,
		DateOfBirth:  input.DateOfBirth,
		Profession:   input.Profession,
		Gender:       input.Gender,
		ProfilePic:   pic,
	}
	if err := app.UserRepo.CreateUser(user); err != nil {
		app.renderRegisterError(w, "Registration failed")
		return
	}

	app.Logger.Info().Str("email", user.Email).Msg("account registered")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (app *App) renderRegisterError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	app.renderTemplate(w, "register.html", struct{ Error string }{Error: message})
}

func (app *App) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	app.renderTemplate(w, "login.html", nil)
}

func (app *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	ok, err := app.UserRepo.VerifyLogin(email, password)
	if err != nil {
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		app.renderTemplate(w, "login.html", struct{ Error string }{Error: "Invalid email or password"})
		return
	}

	if err := app.Sessions.SignIn(w, r, email); err != nil {
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	app.Logger.Info().Str("email", email).Msg("login")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	app.Sessions.SignOut(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (app *App) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	email := app.Sessions.CurrentEmail(r)

	user, err := app.UserRepo.GetUserByEmail(email)
	if err != nil {
		http.Error(w, "Error loading profile", http.StatusInternalServerError)
		return
	}

	data := struct {
		User   *models.User
		HasPic bool
	}{
		User:   user,
		HasPic: len(user.ProfilePic) > 0,
	}
	app.renderTemplate(w, "profile.html", data)
}

// ProfilePicHandler serves the stored thumbnail for the logged-in account.
func (app *App) ProfilePicHandler(w http.ResponseWriter, r *http.Request) {
	email := app.Sessions.CurrentEmail(r)

	user, err := app.UserRepo.GetUserByEmail(email)
	if err != nil || len(user.ProfilePic) == 0 {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(user.ProfilePic)
}

// makeThumbnail decodes an uploaded image and re-encodes it as a small JPEG
// so the database only ever holds a bounded blob.
func makeThumbnail(file io.Reader) ([]byte, error) {
	img, _, err := image.Decode(io.LimitReader(file, maxProfilePicSize))
	if err != nil {
		return nil, err
	}

	thumb := resize.Thumbnail(thumbnailSize, thumbnailSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
