package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays application status and information about the open image
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	imageInfo   *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel: widget.NewLabel("Ready"),
		imageInfo:   widget.NewLabel("No image loaded"),
	}
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.imageInfo,
	)
	return sb
}

// SetStatus updates the main status message. Must be called on the UI goroutine.
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetImageInfo shows dimensions and resolution of the open image.
func (sb *StatusBar) SetImageInfo(name string, width, height, dpi uint32) {
	sb.imageInfo.SetText(fmt.Sprintf("%s: %dx%d px, %d dpi", name, width, height, dpi))
}

func (sb *StatusBar) GetImageInfo() string {
	return sb.imageInfo.Text
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
