package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tsboard/internal/logger"
)

const defaultStepTimeout = 10 * time.Second

type Shutdownable interface {
	Shutdown()
}

// Func adapts a plain function to Shutdownable.
type Func func()

func (f Func) Shutdown() { f() }

// Manager shuts registered components down in reverse registration order,
// either on demand or when the process receives SIGINT/SIGTERM.
type Manager struct {
	components  []named
	logger      logger.Logger
	mu          sync.Mutex
	done        chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	stepTimeout time.Duration
}

type named struct {
	name      string
	component Shutdownable
}

func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.NoOp{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		logger:      log,
		done:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		stepTimeout: defaultStepTimeout,
	}
}

func (m *Manager) Register(name string, component Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, named{name: name, component: component})
}

// Listen shuts down on the first interrupt or terminate signal and then
// calls onSignal, typically to quit the UI loop.
func (m *Manager) Listen(onSignal func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
			if onSignal != nil {
				onSignal()
			}
		case <-m.done:
		}
	}()
}

// Shutdown runs once; later calls return immediately.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		return
	default:
		close(m.done)
	}
	components := make([]named, len(m.components))
	copy(components, m.components)
	m.mu.Unlock()

	m.logger.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(components),
	})

	m.cancel()

	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("ShutdownManager", fmt.Errorf("component panic: %v", r), map[string]interface{}{
						"component": c.name,
					})
				}
			}()
			c.component.Shutdown()
		}()

		select {
		case <-finished:
			m.logger.Debug("ShutdownManager", "component stopped", map[string]interface{}{
				"component": c.name,
			})
		case <-time.After(m.stepTimeout):
			m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
				"component": c.name,
			})
		}
	}

	m.logger.Info("ShutdownManager", "shutdown sequence completed", nil)
}

// Context is cancelled as soon as the shutdown sequence starts.
func (m *Manager) Context() context.Context {
	return m.ctx
}
