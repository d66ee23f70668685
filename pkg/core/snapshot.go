package core

// Snapshot is the portable document holding both user collections.
// It is the export/import format and the remote bundle format.
type Snapshot struct {
	Notes  []Note  `json:"notes"`
	Labels []Label `json:"labels"`
}

// Validate checks every record and reports the first problem.
func (s Snapshot) Validate() error {
	for i, l := range s.Labels {
		if err := l.Validate(); err != nil {
			return errorf(ErrValidation, "labels[%d]: %v", i, err)
		}
	}
	for i, n := range s.Notes {
		if err := n.Validate(); err != nil {
			return errorf(ErrValidation, "notes[%d]: %v", i, err)
		}
	}
	return nil
}
