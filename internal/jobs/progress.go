package jobs

import (
	"fmt"
	"sync"
	"time"
)

// FailedStep is the step suffix of a monitor whose job returned an error.
const FailedStep = "failed"

// ProgressMonitor is the live status of the active job.
// The worker writes it while request handlers read it concurrently.
type ProgressMonitor struct {
	mu sync.RWMutex

	id        string
	topic     string
	labelKey  string
	current   int64
	target    int64
	err       error
	startedAt time.Time
}

// Status is the polled representation of a ProgressMonitor.
type Status struct {
	ID            string    `json:"id"`
	LabelKey      string    `json:"labelKey"`
	CurrentAmount int64     `json:"currentAmount"`
	TargetAmount  int64     `json:"targetAmount"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"startedAt"`
}

func newProgressMonitor(id, topic, step string) *ProgressMonitor {
	return &ProgressMonitor{
		id:        id,
		topic:     topic,
		labelKey:  labelKey(topic, step),
		startedAt: time.Now(),
	}
}

func labelKey(topic, step string) string {
	if step == "" {
		return topic
	}
	return topic + "." + step
}

// Update sets the step and both amounts at once.
func (p *ProgressMonitor) Update(step string, current, target int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labelKey = labelKey(p.topic, step)
	p.current = current
	p.target = target
}

// SetStep changes the label without touching the amounts.
func (p *ProgressMonitor) SetStep(step string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labelKey = labelKey(p.topic, step)
}

// SetTarget resets the counter for a new step with target units of work.
func (p *ProgressMonitor) SetTarget(target int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = 0
	p.target = target
}

// Increment advances the current amount by one.
func (p *ProgressMonitor) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
}

// Err returns the terminal error of the job, if any.
func (p *ProgressMonitor) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// LabelKey returns the current "topic.step" label.
func (p *ProgressMonitor) LabelKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.labelKey
}

// Topic returns the topic the monitor was created with.
func (p *ProgressMonitor) Topic() string {
	return p.topic
}

func (p *ProgressMonitor) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labelKey = labelKey(p.topic, FailedStep)
	p.err = err
}

// Snapshot returns a consistent copy of the monitor for polling clients.
func (p *ProgressMonitor) Snapshot() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := Status{
		ID:            p.id,
		LabelKey:      p.labelKey,
		CurrentAmount: p.current,
		TargetAmount:  p.target,
		StartedAt:     p.startedAt,
	}
	if p.err != nil {
		s.Error = fmt.Sprintf("%+v", p.err)
	}
	return s
}
