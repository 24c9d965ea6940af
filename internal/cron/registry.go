package cron

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Job is one maintenance task run by the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry is the ordered job list for a worker. Job names label logs and
// metrics, so they must be unique and non-blank.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) (*Registry, error) {
	r := &Registry{}
	for _, job := range jobs {
		if err := r.Register(job); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends job; a nil job is ignored so optional jobs can be passed
// straight through.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return nil
	}
	name := strings.TrimSpace(job.Name())
	if name == "" {
		return errors.New("cron job name is blank")
	}
	for _, existing := range r.jobs {
		if existing.Name() == name {
			return fmt.Errorf("cron job %q registered twice", name)
		}
	}
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns the jobs in registration order. The slice is a copy.
func (r *Registry) Jobs() []Job {
	return append([]Job(nil), r.jobs...)
}
