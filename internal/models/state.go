package models

import "time"

// View is the screen the session currently shows.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewUpload    View = "upload"
	ViewCandidate View = "candidate"
)

func (v View) Valid() bool {
	return v == ViewDashboard || v == ViewUpload || v == ViewCandidate
}

type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification is a toast-style, non-blocking message. Errors from
// extraction, analysis and send all surface here instead of failing the
// workflow.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	Time    time.Time         `json:"time"`
}

// SlotSnapshot describes one upload slot for renderers.
type SlotSnapshot struct {
	Document      *Document `json:"document,omitempty"`
	Extracting    bool      `json:"extracting"`
	Extracted     bool      `json:"extracted"`
	CandidateHint string    `json:"candidate_hint,omitempty"`
}

// StateSnapshot is the full workflow state handed to view renderers. It is
// a copy; mutating it never touches controller state.
type StateSnapshot struct {
	View          View            `json:"view"`
	JobDesc       SlotSnapshot    `json:"job_description"`
	Resume        SlotSnapshot    `json:"resume"`
	AnalyzeReady  bool            `json:"analyze_ready"`
	Analyzing     bool            `json:"analyzing"`
	Result        *AnalysisResult `json:"result,omitempty"`
	ModalOpen     bool            `json:"modal_open"`
	Draft         *ReviewDraft    `json:"draft,omitempty"`
	Sending       bool            `json:"sending"`
	Notifications []Notification  `json:"notifications"`
}

// CandidateResponse is the candidate-review payload: the current result, or
// the named placeholder when none exists yet.
type CandidateResponse struct {
	Result         AnalysisResult `json:"result"`
	Recommendation Recommendation `json:"recommendation"`
	StatusColor    string         `json:"status_color"`
	Placeholder    bool           `json:"placeholder"`
}
