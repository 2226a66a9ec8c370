package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/reelcut/reelcut/internal/database"
	"github.com/reelcut/reelcut/internal/models"
	"github.com/reelcut/reelcut/internal/reels"
	"github.com/reelcut/reelcut/internal/session"
	"github.com/reelcut/reelcut/internal/storage"
)

// ReelGenerator turns a source video into highlight reels on disk.
type ReelGenerator interface {
	Generate(ctx context.Context, videoPath, outDir string) (*reels.Result, error)
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

type App struct {
	Storage       storage.Storage
	DB            *database.DB
	UserRepo      *database.UserRepository
	ReelRepo      *database.ReelRepository
	Sessions      *session.Manager
	Generator     ReelGenerator
	MaxUploadSize int64
	Logger        zerolog.Logger
}

func (app *App) renderTemplate(w http.ResponseWriter, name string, data any) {
	tmplPath := filepath.Join("web", "templates", name)
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		http.Error(w, "Error loading template", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
	}
}

func (app *App) renderError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, `<div class="alert alert-error">%s</div>`, template.HTMLEscapeString(message))
}

func (app *App) renderSuccess(w http.ResponseWriter, message string) {
	fmt.Fprintf(w, `<div class="alert alert-success">%s</div>`, template.HTMLEscapeString(message))
}

// HomeHandler shows the upload form and the logged-in account's reels.
func (app *App) HomeHandler(w http.ResponseWriter, r *http.Request) {
	email := app.Sessions.CurrentEmail(r)

	userReels, err := app.ReelRepo.ListReelsByUser(email)
	if err != nil {
		http.Error(w, "Error loading reels", http.StatusInternalServerError)
		return
	}

	data := struct {
		Email string
		Reels []models.Reel
	}{
		Email: email,
		Reels: userReels,
	}
	app.renderTemplate(w, "home.html", data)
}

// UploadHandler saves a video into storage and offers the generate step.
func (app *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)
	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		app.renderError(w, "File too large")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		app.renderError(w, "Failed to get file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") && contentType != "application/octet-stream" {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".mp4" {
			app.renderError(w, "Only MP4 video files are allowed")
			return
		}
	}

	stored, err := app.Storage.SaveUpload(file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	})
	if err != nil {
		app.renderError(w, "Failed to save file")
		return
	}

	app.renderSuccess(w, "Video uploaded")
	fmt.Fprintf(w, `<form hx-post="/generate" hx-target="#upload-result">
		<input type="hidden" name="video" value="%s">
		<input type="hidden" name="source" value="%s">
		<button type="submit">Generate reels</button>
	</form>`,
		template.HTMLEscapeString(stored),
		template.HTMLEscapeString(header.Filename))
}

// GenerateHandler runs reel generation on a previously uploaded video and
// stores every reel that came out whole.
func (app *App) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	email := app.Sessions.CurrentEmail(r)

	stored := r.FormValue("video")
	sourceName := r.FormValue("source")
	if stored == "" {
		app.renderError(w, "No uploaded video to process")
		return
	}
	if sourceName == "" {
		sourceName = stored
	}

	videoPath, err := app.Storage.FullPath(stored)
	if err != nil {
		app.renderError(w, "Invalid video reference")
		return
	}
	if _, err := os.Stat(videoPath); err != nil {
		app.renderError(w, "Uploaded video not found")
		return
	}

	outDir, err := os.MkdirTemp("", "reelcut-out-*")
	if err != nil {
		app.renderError(w, "Failed to prepare output directory")
		return
	}
	defer os.RemoveAll(outDir)

	result, err := app.Generator.Generate(r.Context(), videoPath, outDir)
	if err != nil {
		app.Logger.Error().Err(err).Str("video", sourceName).Msg("reel generation failed")
		app.renderError(w, "Reel generation failed")
		return
	}

	saved := 0
	for _, reel := range result.Reels {
		if !reel.OK() || reel.Path == "" {
			if reel.Err != nil {
				app.Logger.Warn().Err(reel.Err).Int("reel", reel.Index).Msg("reel skipped")
			}
			continue
		}

		name, err := app.Storage.IngestFile(reel.Path)
		if err != nil {
			app.Logger.Error().Err(err).Int("reel", reel.Index).Msg("failed to store reel")
			continue
		}

		record := models.NewReel(email, sourceName, reel.Index, name, len(reel.Segments))
		if err := app.ReelRepo.InsertReel(record); err != nil {
			app.Storage.DeleteFile(name)
			app.Logger.Error().Err(err).Int("reel", reel.Index).Msg("failed to record reel")
			continue
		}
		saved++
	}

	if saved == 0 {
		app.renderError(w, "No reels could be generated from this video")
		return
	}

	w.Header().Set("HX-Trigger", "reelsGenerated")
	app.renderSuccess(w, fmt.Sprintf("Generated %d reels!", saved))
}

// ReelListPartialHandler renders the account's reels as an HTML fragment.
func (app *App) ReelListPartialHandler(w http.ResponseWriter, r *http.Request) {
	email := app.Sessions.CurrentEmail(r)

	userReels, err := app.ReelRepo.ListReelsByUser(email)
	if err != nil {
		w.Write([]byte("<p>Error loading reels</p>"))
		return
	}
	if len(userReels) == 0 {
		w.Write([]byte("<p>No reels yet</p>"))
		return
	}

	for _, reel := range userReels {
		fmt.Fprintf(w, `<div class="reel-item">
			<a href="/reels/%s">Reel %d of %s</a>
			<small>%d segments | %s</small>
		</div>`,
			template.HTMLEscapeString(reel.ID),
			reel.ReelIndex,
			template.HTMLEscapeString(reel.SourceName),
			reel.SegmentCount,
			reel.CreatedAt.Format("Jan 2, 2006 15:04"))
	}
}

func (app *App) loadOwnReel(w http.ResponseWriter, r *http.Request) *models.Reel {
	reelID := chi.URLParam(r, "id")
	if reelID == "" {
		http.NotFound(w, r)
		return nil
	}

	reel, err := app.ReelRepo.GetReelByID(reelID)
	if err != nil {
		http.NotFound(w, r)
		return nil
	}
	if reel.UserEmail != app.Sessions.CurrentEmail(r) {
		http.NotFound(w, r)
		return nil
	}
	return reel
}

func (app *App) WatchReelHandler(w http.ResponseWriter, r *http.Request) {
	reel := app.loadOwnReel(w, r)
	if reel == nil {
		return
	}

	data := struct {
		Reel *models.Reel
	}{Reel: reel}
	app.renderTemplate(w, "reel.html", data)
}

func (app *App) StreamReelHandler(w http.ResponseWriter, r *http.Request) {
	reel := app.loadOwnReel(w, r)
	if reel == nil {
		return
	}

	file, err := app.Storage.OpenFile(reel.Filename)
	if err != nil {
		http.Error(w, "Reel file not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	modTime := time.Now()
	if statter, ok := file.(interface{ Stat() (os.FileInfo, error) }); ok {
		if stat, err := statter.Stat(); err == nil {
			modTime = stat.ModTime()
		}
	}

	w.Header().Set("Content-Type", "video/mp4")
	http.ServeContent(w, r, reel.Filename, modTime, file)
}

func (app *App) DownloadReelHandler(w http.ResponseWriter, r *http.Request) {
	reel := app.loadOwnReel(w, r)
	if reel == nil {
		return
	}

	file, err := app.Storage.OpenFile(reel.Filename)
	if err != nil {
		http.Error(w, "Reel file not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	downloadName := fmt.Sprintf("reel_%d_%s", reel.ReelIndex, filepath.Base(reel.SourceName))
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, downloadName))
	http.ServeContent(w, r, reel.Filename, time.Now(), file)
}

func (app *App) DeleteReelHandler(w http.ResponseWriter, r *http.Request) {
	reel := app.loadOwnReel(w, r)
	if reel == nil {
		return
	}

	if err := app.ReelRepo.DeleteReel(reel.ID); err != nil {
		http.Error(w, "Failed to delete reel", http.StatusInternalServerError)
		return
	}
	if err := app.Storage.DeleteFile(reel.Filename); err != nil {
		app.Logger.Warn().Err(err).Str("file", reel.Filename).Msg("reel record deleted but file removal failed")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
