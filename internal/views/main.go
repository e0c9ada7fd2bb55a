package views

import (
	"fmt"
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"

	"tsboard/internal/events"
	"tsboard/internal/imageinfo"
	"tsboard/internal/logger"
	"tsboard/internal/views/components"
)

// ImageLoader decodes pixels for display.
type ImageLoader interface {
	Load(path string) (image.Image, error)
}

// MainView is the presentation layer. It subscribes to open_file events and
// renders the opened image with its metadata.
type MainView struct {
	window       fyne.Window
	title        string
	content      *fyne.Container
	imageDisplay *components.ImageDisplay
	statusBar    *components.StatusBar
	loader       ImageLoader
	logger       logger.Logger

	mu      sync.RWMutex
	current *imageinfo.Info
}

func NewMainView(window fyne.Window, title string, loader ImageLoader, log logger.Logger) *MainView {
	if log == nil {
		log = logger.NoOp{}
	}

	mv := &MainView{
		window:       window,
		title:        title,
		imageDisplay: components.NewImageDisplay(),
		statusBar:    components.NewStatusBar(),
		loader:       loader,
		logger:       log,
	}

	mv.content = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.imageDisplay.GetContainer(),
	)

	return mv
}

func (mv *MainView) Content() fyne.CanvasObject {
	return mv.content
}

// GetID identifies the view as an event subscriber.
func (mv *MainView) GetID() string {
	return "MainView"
}

// Handle receives events from the bus. It runs on the bus goroutine, so
// decoding happens here and only widget updates are handed to the UI.
func (mv *MainView) Handle(event events.Event) {
	if event.Type != events.OpenFile {
		return
	}

	info, ok := event.Payload.(*imageinfo.Info)
	if !ok || info == nil {
		mv.logger.Warning("MainView", "unexpected open_file payload", map[string]interface{}{
			"payload": fmt.Sprintf("%T", event.Payload),
		})
		return
	}

	mv.ShowImage(info)
}

// ShowImage decodes a preview for info and displays it along with its
// dimensions and resolution.
func (mv *MainView) ShowImage(info *imageinfo.Info) {
	mv.UpdateStatus("Loading " + info.Name() + "...")

	img, err := mv.loader.Load(info.Path)
	if err != nil {
		mv.logger.Error("MainView", err, map[string]interface{}{
			"path": info.Path,
		})
		mv.ShowError(err)
		mv.UpdateStatus("Ready")
		return
	}

	mv.mu.Lock()
	mv.current = info
	mv.mu.Unlock()

	fyne.Do(func() {
		mv.imageDisplay.SetImage(img)
		mv.statusBar.SetImageInfo(info.Name(), info.Width, info.Height, info.DPI)
		mv.statusBar.SetStatus("Ready")
		mv.window.SetTitle(mv.title + " - " + info.Name())
	})

	mv.logger.Info("MainView", "image displayed", map[string]interface{}{
		"path":   info.Path,
		"width":  info.Width,
		"height": info.Height,
		"dpi":    info.DPI,
	})
}

// Current returns the image on display, or nil.
func (mv *MainView) Current() *imageinfo.Info {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	return mv.current
}

func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

func (mv *MainView) Status() string {
	return mv.statusBar.GetStatus()
}

func (mv *MainView) ImageInfoText() string {
	return mv.statusBar.GetImageInfo()
}

func (mv *MainView) HasImage() bool {
	return mv.imageDisplay.HasImage()
}

func (mv *MainView) ShowError(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, mv.window)
	})
}

func (mv *MainView) ShowInformation(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}
