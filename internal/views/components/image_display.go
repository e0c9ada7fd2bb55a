package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 800
	ImageAreaHeight = 600
)

// ImageDisplay shows the currently opened image, or a hint when none is open.
type ImageDisplay struct {
	container   *fyne.Container
	image       *canvas.Image
	placeholder *widget.Label
	hasImage    bool
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.container = container.NewStack(display.placeholder, display.image)
	return display
}

func (id *ImageDisplay) createComponents() {
	id.placeholder = widget.NewLabelWithStyle(
		"Open an image with File > Open...",
		fyne.TextAlignCenter,
		fyne.TextStyle{Italic: true},
	)

	id.image = canvas.NewImageFromImage(nil)
	id.image.FillMode = canvas.ImageFillContain
	id.image.ScaleMode = canvas.ImageScaleSmooth
	id.image.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	id.image.Hide()
}

// SetImage replaces the displayed image. A nil image restores the placeholder.
// Must be called on the UI goroutine.
func (id *ImageDisplay) SetImage(img image.Image) {
	id.image.Image = img
	id.hasImage = img != nil

	if id.hasImage {
		id.placeholder.Hide()
		id.image.Show()
	} else {
		id.image.Hide()
		id.placeholder.Show()
	}
	id.image.Refresh()
}

func (id *ImageDisplay) HasImage() bool {
	return id.hasImage
}

func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
