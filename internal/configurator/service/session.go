package service

import (
	"sync"

	"pv-configurator/internal/configurator/transform"

	"go.uber.org/zap"
)

// ============================================================
// Session Manager
// ============================================================

// SessionManager хранит состояние гизмо по проектам. Это состояние
// взаимодействия, в базу оно не попадает.
type SessionManager struct {
	mu       sync.Mutex
	gizmos   map[string]*transform.Gizmo // projectID -> gizmo
	gridSize float64
	log      *zap.Logger
}

func NewSessionManager(gridSize float64, log *zap.Logger) *SessionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{
		gizmos:   make(map[string]*transform.Gizmo),
		gridSize: gridSize,
		log:      log,
	}
}

// Gizmo возвращает гизмо проекта, создавая его при первом обращении.
func (m *SessionManager) Gizmo(projectID string) *transform.Gizmo {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.gizmos[projectID]
	if !ok {
		g = transform.NewGizmo(m.gridSize, m.log.With(zap.String("project", projectID)))
		m.gizmos[projectID] = g
	}
	return g
}

func (m *SessionManager) Drop(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.gizmos, projectID)
}
