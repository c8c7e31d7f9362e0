// Package jobs tareas periódicas del servidor, programadas con robfig/cron.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// Scheduler administra tareas con expresiones cron (con campo de segundos opcional).
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// NewScheduler crea el programador. Una ejecución que no terminó hace saltar la
// siguiente y los panics se recuperan y se registran.
func NewScheduler(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("jobs")
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cl),
			cron.Recover(cl),
		)),
		log:  log,
		jobs: make(map[string]cron.EntryID),
	}
}

// Start arranca el programador.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.JobNames())).Msg("iniciando tareas programadas")
	s.cron.Start()
}

// Stop detiene el programador; el contexto devuelto termina cuando acaban las tareas en curso.
func (s *Scheduler) Stop() context.Context {
	s.log.Info().Msg("deteniendo tareas programadas")
	return s.cron.Stop()
}

// AddJob registra job bajo name. Ejemplos de expr: "@every 5m", "0 */10 * * * *", "@hourly".
func (s *Scheduler) AddJob(name, expr string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("la tarea %s ya existe", name)
	}
	entryID, err := s.cron.AddFunc(expr, func() {
		s.log.Debug().Str("job", name).Msg("ejecutando tarea")
		job()
	})
	if err != nil {
		return fmt.Errorf("agregar tarea %s: %w", name, err)
	}
	s.jobs[name] = entryID
	s.log.Info().Str("job", name).Str("expr", expr).Msg("tarea programada")
	return nil
}

// RemoveJob quita la tarea name.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("tarea %s no encontrada", name)
	}
	s.cron.Remove(entryID)
	delete(s.jobs, name)
	s.log.Info().Str("job", name).Msg("tarea eliminada")
	return nil
}

// JobNames nombres de las tareas registradas, ordenados.
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cronLogger adapta el logger de la aplicación a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
