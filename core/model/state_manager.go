package model

import (
	"sync"

	"github.com/YuminosukeSato/framekit/pkg/errors"
)

// StateManager holds what a transformer learned during Fit: the fitted flag,
// the input dimensions and the output schema. Schema slices are copied on the
// way in and out so callers can never mutate learned state.
type StateManager struct {
	mu sync.RWMutex

	fitted    bool
	nFeatures int
	nSamples  int
	schema    []string
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether Fit has completed.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// Learn records the outcome of a fit in one step.
func (s *StateManager) Learn(schema []string, nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = append([]string(nil), schema...)
	s.nFeatures = nFeatures
	s.nSamples = nSamples
	s.fitted = true
}

// Reset clears the learned state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.schema = nil
	s.nFeatures = 0
	s.nSamples = 0
}

// Schema returns a copy of the learned output columns.
func (s *StateManager) Schema() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.schema...)
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError if Fit has not completed.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// ModelState is a snapshot of the learned state for debugging and String().
type ModelState struct {
	Fitted    bool     `json:"fitted"`
	NFeatures int      `json:"n_features,omitempty"`
	NSamples  int      `json:"n_samples,omitempty"`
	Columns   []string `json:"columns,omitempty"`
}

// GetState returns the current state as a ModelState.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		Fitted:    s.fitted,
		NFeatures: s.nFeatures,
		NSamples:  s.nSamples,
		Columns:   append([]string(nil), s.schema...),
	}
}
