// Package batch applies a task to a filtered set of items through a chain of
// processors.
package batch

//go:generate mockgen -destination=mocks/mock_processor.go -package=mocks -source=batch.go Processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/search"
)

// Task selects what a batch run does with each candidate.
type Task string

// Supported tasks.
const (
	TaskDeleteItem         Task = "DELETE_ITEM"
	TaskAddTagToItem       Task = "ADD_TAG_TO_ITEM"
	TaskRemoveTagFromItem  Task = "REMOVE_TAG_FROM_ITEM"
	TaskUploadModifiedItem Task = "UPLOAD_MODIFIED_ITEM"
	TaskUpdateSearchIndex  Task = "UPDATE_SEARCH_INDEX"
)

// Parameters describe a batch run.
type Parameters struct {
	Task Task `json:"task"`

	// SearchTerm filters the candidates. Empty or "*" selects all items.
	SearchTerm string `json:"searchTerm"`

	// MaxItems caps the number of candidates, 0 meaning unlimited
	MaxItems int `json:"maxItems"`

	// TargetID is the tag id of tag tasks
	TargetID string `json:"targetId,omitempty"`
}

// MatchesAll reports whether the run selects every item.
func (p Parameters) MatchesAll() bool {
	term := strings.TrimSpace(p.SearchTerm)
	return term == "" || term == search.MatchAll
}

// Validate checks the parameters before a run is submitted.
func (p Parameters) Validate() error {
	switch p.Task {
	case TaskDeleteItem, TaskUploadModifiedItem, TaskUpdateSearchIndex:
	case TaskAddTagToItem, TaskRemoveTagFromItem:
		if strings.TrimSpace(p.TargetID) == "" {
			return domain.InvalidInput("validate batch parameters", fmt.Sprintf("task %s requires a targetId", p.Task))
		}
	case "":
		return domain.InvalidInput("validate batch parameters", "task is required")
	default:
		return domain.InvalidInput("validate batch parameters", fmt.Sprintf("unknown task %q", p.Task))
	}
	if p.MaxItems < 0 {
		return domain.InvalidInput("validate batch parameters", "maxItems must not be negative")
	}
	return nil
}

// Result is the outcome of a processor for one item.
type Result struct {
	// Handled stops the processor chain for the item
	Handled bool

	// Mutated makes the engine save and re-index the item
	Mutated bool
}

// Common results.
var (
	Unhandled      = Result{}
	Handled        = Result{Handled: true}
	HandledMutated = Result{Handled: true, Mutated: true}
)

// Processor is one strategy of the chain. A processor that does not serve
// the run's task returns Unhandled without side effects.
type Processor interface {
	// Initialize is called once per run before any item is processed.
	Initialize(ctx context.Context, params Parameters) error
	// Process handles a single candidate.
	Process(ctx context.Context, params Parameters, item *domain.Item) (Result, error)
}

// ExclusiveProcessor may take over a whole run instead of working per item.
type ExclusiveProcessor interface {
	Processor
	// ProcessAll reports whether it handled the run.
	ProcessAll(ctx context.Context, params Parameters, progress Progress) (bool, error)
}

// Progress receives progress updates of a run.
type Progress interface {
	SetStep(step string)
	SetTarget(target int64)
	Increment()
}

type noopProgress struct{}

func (noopProgress) SetStep(string)  {}
func (noopProgress) SetTarget(int64) {}
func (noopProgress) Increment()      {}
