package app

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"tsboard/internal/config"
	"tsboard/internal/events"
	"tsboard/internal/imageinfo"
	"tsboard/internal/logger"
	"tsboard/internal/views"
)

// lastDirectoryKey stores the folder of the most recently opened image.
const lastDirectoryKey = "last_directory"

// OpenExtensions restricts the open dialog. Format detection does not rely on it.
var OpenExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

type Handlers struct {
	ctx     context.Context
	fyneApp fyne.App
	window  fyne.Window
	bus     *events.Bus
	view    *views.MainView
	logger  logger.Logger
}

// NewHandlers binds the menu actions to the window. Once ctx is cancelled,
// files are no longer read or announced.
func NewHandlers(ctx context.Context, fyneApp fyne.App, window fyne.Window, bus *events.Bus, view *views.MainView, log logger.Logger) *Handlers {
	return &Handlers{
		ctx:     ctx,
		fyneApp: fyneApp,
		window:  window,
		bus:     bus,
		view:    view,
		logger:  log,
	}
}

// HandleOpenFile shows the file picker; the chosen file is read off the UI
// goroutine and announced with an open_file event.
func (h *Handlers) HandleOpenFile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if path := h.pickedPath(reader, err); path != "" {
			go h.OpenPath(path)
		}
	}, h.window)

	d.SetFilter(storage.NewExtensionFileFilter(OpenExtensions))
	if loc := h.lastLocation(); loc != nil {
		d.SetLocation(loc)
	}
	d.Show()
}

// OpenPath reads the image at path and publishes its info. Unreadable files
// produce no event, and nothing is read once shutdown has started.
func (h *Handlers) OpenPath(path string) bool {
	if err := h.ctx.Err(); err != nil {
		h.logger.Debug("Handlers", "open skipped during shutdown", map[string]interface{}{
			"path": path,
		})
		return false
	}

	info, err := imageinfo.Read(path)
	if err != nil {
		h.logger.Warning("Handlers", "image not readable", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return false
	}

	h.logger.Debug("Handlers", "image info read", map[string]interface{}{
		"path":   info.Path,
		"width":  info.Width,
		"height": info.Height,
		"dpi":    info.DPI,
	})

	h.fyneApp.Preferences().SetString(lastDirectoryKey, filepath.Dir(path))

	return h.bus.Emit(events.OpenFile, info)
}

// pickedPath releases the dialog's reader and returns the local path of the
// chosen file, or "" when there is nothing to open.
func (h *Handlers) pickedPath(reader fyne.URIReadCloser, err error) string {
	if err != nil {
		h.showError(err)
		return ""
	}
	if reader == nil {
		return ""
	}

	uri := reader.URI()
	if err := reader.Close(); err != nil {
		h.logger.Debug("Handlers", "closing picked file failed", map[string]interface{}{
			"uri":   uri.String(),
			"error": err.Error(),
		})
	}

	if uri.Scheme() != "file" {
		h.showError(fmt.Errorf("unsupported location %s", uri.String()))
		return ""
	}
	return uri.Path()
}

func (h *Handlers) HandleToggleFullScreen() {
	h.window.SetFullScreen(!h.window.FullScreen())
}

func (h *Handlers) HandleAbout() {
	h.view.ShowInformation(
		"About "+config.AppName,
		fmt.Sprintf("%s %s\nImage viewer", config.AppName, config.AppVersion),
	)
}

func (h *Handlers) lastLocation() fyne.ListableURI {
	dir := h.fyneApp.Preferences().String(lastDirectoryKey)
	if dir == "" {
		return nil
	}

	loc, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		h.logger.Debug("Handlers", "last directory unavailable", map[string]interface{}{
			"dir": dir,
		})
		return nil
	}
	return loc
}

func (h *Handlers) showError(err error) {
	h.logger.Error("Handlers", err, nil)
	h.view.ShowError(err)
}
