// Package domain holds the lead entity, its status lifecycle, and the
// analysis value types shared by the intake, pipeline, and dashboard layers.
package domain

// Status is the lifecycle state of a lead.
type Status string

const (
	// StatusProcessing is the intake state: the lead row exists but the
	// analysis pipeline has not finished. Every other status is terminal
	// from the pipeline's perspective.
	StatusProcessing Status = "processing"
	// StatusNew is where every pipeline run lands, success or failure.
	StatusNew        Status = "new"
	StatusContacted  Status = "contacted"
	StatusQuoted     Status = "quoted"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusLost       Status = "lost"
)

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusNew, StatusContacted, StatusQuoted,
		StatusInProgress, StatusCompleted, StatusLost:
		return true
	}
	return false
}

// ContractorAssignable reports whether a contractor may manually move a lead
// into s from the dashboard. Only the pipeline may set processing.
func (s Status) ContractorAssignable() bool {
	return s.Valid() && s != StatusProcessing
}
