package store

import "sync"

// SubjectRegistry is an ordered set of subject names.
type SubjectRegistry struct {
	mu       sync.RWMutex
	subjects []string
}

func NewSubjectRegistry(initial []string) *SubjectRegistry {
	r := &SubjectRegistry{}
	for _, s := range initial {
		r.Add(s)
	}
	return r
}

// Add appends subject and reports false if it was already present.
func (r *SubjectRegistry) Add(subject string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(subject) >= 0 {
		return false
	}
	r.subjects = append(r.subjects, subject)
	return true
}

// Remove deletes subject and reports false if it was absent.
func (r *SubjectRegistry) Remove(subject string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(subject)
	if i < 0 {
		return false
	}
	r.subjects = append(r.subjects[:i], r.subjects[i+1:]...)
	return true
}

// List returns a copy of the subjects in insertion order.
func (r *SubjectRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string{}, r.subjects...)
}

func (r *SubjectRegistry) indexOf(subject string) int {
	for i, s := range r.subjects {
		if s == subject {
			return i
		}
	}
	return -1
}
