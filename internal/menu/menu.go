package menu

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"tsboard/internal/logger"
)

// Menu item identifiers. Only OpenFile carries application logic today; the
// rest are routed when a handler is registered for them.
const (
	OpenFile         = "open_file"
	OpenFolder       = "open_folder"
	Save             = "save"
	SaveAs           = "save_file"
	ToggleFullScreen = "toggle_fullscreen"
	About            = "about"
)

// Item is a single menu entry. Key, when set, is bound together with the
// platform shortcut modifier (Cmd on macOS, Ctrl elsewhere).
type Item struct {
	ID        string
	Label     string
	Key       fyne.KeyName
	Separator bool
}

type Submenu struct {
	Label string
	Items []Item
}

// Definition returns the application menu layout.
func Definition() []Submenu {
	return []Submenu{
		{
			Label: "File",
			Items: []Item{
				{ID: OpenFile, Label: "Open...", Key: fyne.KeyO},
				{ID: OpenFolder, Label: "Open Folder..."},
				{Separator: true},
				{ID: Save, Label: "Save", Key: fyne.KeyS},
				{ID: SaveAs, Label: "Save As..."},
			},
		},
		{
			Label: "Window",
			Items: []Item{
				{ID: ToggleFullScreen, Label: "Full Screen", Key: fyne.KeyF},
			},
		},
		{
			Label: "Help",
			Items: []Item{
				{ID: About, Label: "About"},
			},
		},
	}
}

// Shortcut returns the accelerator for item, or nil when it has none.
func (i Item) Shortcut() fyne.Shortcut {
	if i.Key == "" {
		return nil
	}
	return &desktop.CustomShortcut{KeyName: i.Key, Modifier: fyne.KeyModifierShortcutDefault}
}

// Router dispatches menu item IDs to actions.
type Router struct {
	mu     sync.RWMutex
	routes map[string]func()
	logger logger.Logger
}

func NewRouter(log logger.Logger) *Router {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Router{
		routes: make(map[string]func()),
		logger: log,
	}
}

// Handle registers fn for id, replacing any previous action.
func (r *Router) Handle(id string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[id] = fn
}

// Dispatch runs the action for id and reports whether one was registered.
func (r *Router) Dispatch(id string) bool {
	r.mu.RLock()
	fn, ok := r.routes[id]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug("Menu", "menu action not handled", map[string]interface{}{
			"id": id,
		})
		return false
	}

	r.logger.Debug("Menu", "menu action", map[string]interface{}{
		"id": id,
	})
	fn()
	return true
}

// Build converts defs into a Fyne main menu whose items dispatch through r.
func Build(defs []Submenu, r *Router) *fyne.MainMenu {
	menus := make([]*fyne.Menu, 0, len(defs))

	for _, sub := range defs {
		items := make([]*fyne.MenuItem, 0, len(sub.Items))
		for _, def := range sub.Items {
			if def.Separator {
				items = append(items, fyne.NewMenuItemSeparator())
				continue
			}

			id := def.ID
			item := fyne.NewMenuItem(def.Label, func() { r.Dispatch(id) })
			item.Shortcut = def.Shortcut()
			items = append(items, item)
		}
		menus = append(menus, fyne.NewMenu(sub.Label, items...))
	}

	return fyne.NewMainMenu(menus...)
}

// Install sets the main menu on w and binds every accelerator on its canvas,
// so shortcuts work even where the platform menu is not native.
func Install(w fyne.Window, defs []Submenu, r *Router) {
	w.SetMainMenu(Build(defs, r))

	for _, sub := range defs {
		for _, def := range sub.Items {
			sc := def.Shortcut()
			if sc == nil {
				continue
			}
			id := def.ID
			w.Canvas().AddShortcut(sc, func(fyne.Shortcut) { r.Dispatch(id) })
		}
	}
}
