package app

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"tsboard/internal/config"
	"tsboard/internal/events"
	"tsboard/internal/logger"
	"tsboard/internal/menu"
	"tsboard/internal/preview"
	"tsboard/internal/shutdown"
	"tsboard/internal/views"
)

const (
	MinWindowWidth  = 800
	MinWindowHeight = 600
	eventBufferSize = 16
)

type Application struct {
	fyneApp  fyne.App
	window   fyne.Window
	view     *views.MainView
	bus      *events.Bus
	router   *menu.Router
	handlers *Handlers
	shutdown *shutdown.Manager
	logger   logger.Logger
}

// NewApplication creates the Fyne application and wires menu, handlers,
// event bus and view together.
func NewApplication(cfg config.Config, log logger.Logger) *Application {
	return newApplication(fyneapp.NewWithID(config.AppID), cfg, log)
}

func newApplication(fyneApp fyne.App, cfg config.Config, log logger.Logger) *Application {
	if log == nil {
		log = logger.NoOp{}
	}

	window := fyneApp.NewWindow(config.AppName)
	window.Resize(fyne.NewSize(MinWindowWidth, MinWindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	bus := events.NewBus(eventBufferSize, log)
	view := views.NewMainView(window, config.AppName, preview.NewLoader(cfg.PreviewMax, log), log)
	bus.Subscribe(events.OpenFile, view)

	shutdownMgr := shutdown.NewManager(log)
	shutdownMgr.Register("event bus", bus)

	handlers := NewHandlers(shutdownMgr.Context(), fyneApp, window, bus, view, log)

	router := menu.NewRouter(log)
	router.Handle(menu.OpenFile, handlers.HandleOpenFile)
	router.Handle(menu.ToggleFullScreen, handlers.HandleToggleFullScreen)
	router.Handle(menu.About, handlers.HandleAbout)
	menu.Install(window, menu.Definition(), router)

	window.SetContent(view.Content())

	log.Info("Application", "initialization complete", map[string]interface{}{
		"version":     config.AppVersion,
		"preview_max": cfg.PreviewMax,
	})

	return &Application{
		fyneApp:  fyneApp,
		window:   window,
		view:     view,
		bus:      bus,
		router:   router,
		handlers: handlers,
		shutdown: shutdownMgr,
		logger:   log,
	}
}

// Run shows the main window and blocks until the application quits.
func (a *Application) Run() {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.shutdown.Shutdown()
		a.window.Close()
	})

	a.window.Show()
	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.shutdown.Shutdown()
}

// Dispatch triggers a menu action by ID as if it had been clicked.
func (a *Application) Dispatch(id string) bool {
	return a.router.Dispatch(id)
}

func (a *Application) Shutdown() {
	a.shutdown.Shutdown()
}
