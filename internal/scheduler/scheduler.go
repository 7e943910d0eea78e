// Package scheduler runs configured scripts on cron schedules. The engine is
// single-threaded, so the scheduler calls the host's runner for one job at a
// time.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled script.
type Job struct {
	Name     string `yaml:"name"`
	Schedule string `yaml:"schedule"` // cron spec, e.g. "*/5 * * * *"
	Script   string `yaml:"script"`   // path to the script file
}

// RunFunc executes one script file and reports (success, message).
type RunFunc func(path string) (bool, string)

// Scheduler owns the cron runner and the registered jobs. Jobs run one at a
// time: the engine underneath the runner is single-threaded.
type Scheduler struct {
	mu    sync.Mutex
	runMu sync.Mutex
	cron  *cron.Cron
	run   RunFunc
	jobs  map[string]cron.EntryID
}

func New(run RunFunc) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		run:  run,
		jobs: make(map[string]cron.EntryID),
	}
}

// Add registers a job. Invalid schedules and duplicate names are rejected.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Script == "" {
		return fmt.Errorf("scheduler: job needs a name and a script")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[job.Name]; dup {
		return fmt.Errorf("scheduler: job %q already registered", job.Name)
	}

	script := job.Script
	name := job.Name
	id, err := s.cron.AddFunc(job.Schedule, func() {
		s.runMu.Lock()
		ok, msg := s.run(script)
		s.runMu.Unlock()
		if !ok {
			log.Printf("scheduler: job %q: %s", name, msg)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: job %q: %w", job.Name, err)
	}
	s.jobs[job.Name] = id
	return nil
}

// Remove drops a job by name.
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.jobs[name]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.jobs, name)
	return true
}

// Names lists registered jobs.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		out = append(out, name)
	}
	return out
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
