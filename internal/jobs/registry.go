package jobs

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("job not found")

// Registry stores job records in creation order. The lock only guards slice
// access and copies; it is never held while a pipeline runs.
type Registry struct {
	mu   sync.RWMutex
	jobs []Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make([]Job, 0)}
}

// Insert appends a new record. Ids come from the IDAllocator and are not re-checked.
func (r *Registry) Insert(job Job) {
	job = job.Clone()
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.mu.Unlock()
}

// List returns copies of the matching jobs in creation order.
func (r *Registry) List(f Filter) []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]Job, 0)
	for i := range r.jobs {
		if f.Matches(&r.jobs[i]) {
			res = append(res, r.jobs[i].Clone())
		}
	}
	return res
}

// Get returns a copy of the most recently inserted job with the given id.
func (r *Registry) Get(id uint32) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.jobs) - 1; i >= 0; i-- {
		if r.jobs[i].ID == id {
			return r.jobs[i].Clone(), true
		}
	}
	return Job{}, false
}

// Remove deletes the first job with the given id.
func (r *Registry) Remove(id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs = append(r.jobs[:i], r.jobs[i+1:]...)
			return true
		}
	}
	return false
}

// Replace overwrites the stored record with the same id. A record removed in
// the meantime is not re-created and false is returned.
func (r *Registry) Replace(job Job) bool {
	job = job.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.jobs) - 1; i >= 0; i-- {
		if r.jobs[i].ID == job.ID {
			r.jobs[i] = job
			return true
		}
	}
	return false
}

// UpdateInPlace copies the job out, applies mutate to the copy without holding
// the lock, then writes the result back. mutate may block for a long time.
func (r *Registry) UpdateInPlace(id uint32, mutate func(job *Job)) (Job, error) {
	job, ok := r.Get(id)
	if !ok {
		return Job{}, ErrNotFound
	}
	mutate(&job)
	if !r.Replace(job) {
		return job, ErrNotFound
	}
	return job, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
