package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"recruitai/assistant/internal/models"
)

var (
	// ErrAnalyzeNotReady means one of the slots is empty or still extracting.
	ErrAnalyzeNotReady = errors.New("both documents must be uploaded and extracted before analysis")
	// ErrNoDraftOpen means the approval modal is not open.
	ErrNoDraftOpen = errors.New("no email draft is open for review")
)

const maxNotifications = 20

// Workflow owns the session-wide state and is the only component allowed to
// mutate it. Every transition happens through one of its methods; extraction,
// analysis and the simulated send run as single-shot goroutines that report
// their outcome back through the same lock.
type Workflow interface {
	Snapshot() models.StateSnapshot
	Navigate(view models.View) error
	AttachDocument(doc *models.Document)
	Analyze() error
	Candidate() models.CandidateResponse
	OpenApproval()
	UpdateDraft(subject, body string, autoReply bool) error
	Send() error
	CloseApproval()
}

type slotState struct {
	doc        *models.Document
	text       string
	hint       string
	extracting bool
	extracted  bool
	// gen invalidates extraction completions for replaced files
	gen int
}

type workflow struct {
	extractor TextExtractorService
	client    AnalysisClient
	storage   StorageService
	sendDelay time.Duration

	mu            sync.Mutex
	view          models.View
	jobDesc       slotState
	resume        slotState
	result        *models.AnalysisResult
	draft         *models.ReviewDraft
	analyzing     bool
	modalOpen     bool
	sending       bool
	notifications []models.Notification
}

func NewWorkflow(extractor TextExtractorService, client AnalysisClient, storage StorageService, sendDelay time.Duration) Workflow {
	return &workflow{
		extractor: extractor,
		client:    client,
		storage:   storage,
		sendDelay: sendDelay,
		view:      models.ViewDashboard,
	}
}

func (w *workflow) slot(slot models.DocumentSlot) *slotState {
	if slot == models.SlotResume {
		return &w.resume
	}
	return &w.jobDesc
}

// AttachDocument replaces the slot's current document and starts extraction.
// Whatever text the previous file produced is gone immediately; a completion
// from a replaced file is discarded by the generation check, and the replaced
// file is removed from the upload directory.
func (w *workflow) AttachDocument(doc *models.Document) {
	w.mu.Lock()
	st := w.slot(doc.Slot)
	var replaced string
	if st.doc != nil {
		replaced = st.doc.Filename
	}
	st.gen++
	gen := st.gen
	st.doc = doc
	st.text = ""
	st.extracted = false
	st.extracting = true
	st.hint = ""
	if doc.Slot == models.SlotResume {
		st.hint = CandidateNameFromFilename(doc.OriginalFileName)
	}
	w.mu.Unlock()

	if replaced != "" {
		w.removeFile(replaced)
	}
	go w.runExtraction(doc, gen)
}

func (w *workflow) runExtraction(doc *models.Document, gen int) {
	text, err := w.extractor.ExtractText(doc.FilePath, doc.OriginalFileName)

	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.slot(doc.Slot)
	if st.gen != gen {
		// The file was replaced while we were reading it
		return
	}

	st.extracting = false
	if err != nil {
		log.Printf("⚠️  Extraction failed for %s: %v\n", doc.OriginalFileName, err)
		st.doc = nil
		st.hint = ""
		w.removeFile(doc.Filename)
		w.notify(models.NotificationError, fmt.Sprintf("Could not read %s. Please try a different file.", doc.OriginalFileName))
		return
	}

	st.text = text
	st.extracted = true
}

// removeFile drops a stored upload that no slot references anymore.
func (w *workflow) removeFile(filename string) {
	if err := w.storage.DeleteFile(filename); err != nil {
		log.Printf("⚠️  Failed to remove %s: %v\n", filename, err)
	}
}

// Analyze starts the remote analysis call. A second call while one is in
// flight is ignored, not queued.
func (w *workflow) Analyze() error {
	w.mu.Lock()
	if w.analyzing {
		w.mu.Unlock()
		return nil
	}
	if !w.jobDesc.extracted || !w.resume.extracted {
		w.mu.Unlock()
		return ErrAnalyzeNotReady
	}

	w.analyzing = true
	candidateName := w.resume.hint
	resumeText := w.resume.text
	jobDescText := w.jobDesc.text
	w.mu.Unlock()

	go w.runAnalysis(candidateName, resumeText, jobDescText)
	return nil
}

func (w *workflow) runAnalysis(candidateName, resumeText, jobDescText string) {
	result, err := w.client.Analyze(context.Background(), candidateName, resumeText, jobDescText)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.analyzing = false
	if err != nil {
		log.Printf("❌ Analysis failed: %v\n", err)
		w.notify(models.NotificationError, "Analysis failed. Please try again.")
		return
	}

	w.result = result
	if w.draft != nil {
		// A fresh result resets any open draft to its email
		w.draft = models.NewReviewDraft(result.EmailDraft)
	}
	// Late results are applied last-write-wins, but only move the user when
	// they are still waiting on the upload screen.
	if w.view == models.ViewUpload {
		w.view = models.ViewCandidate
	}
	w.notify(models.NotificationSuccess, fmt.Sprintf("Analysis complete for %s.", result.CandidateName))
}

func (w *workflow) Navigate(view models.View) error {
	if !view.Valid() {
		return fmt.Errorf("unknown view: %s", view)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = view
	return nil
}

// Candidate returns the review payload: the current result, or the named
// placeholder when no analysis has run yet.
func (w *workflow) Candidate() models.CandidateResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	result, placeholder := w.currentResult()
	return models.CandidateResponse{
		Result:         result,
		Recommendation: models.RecommendationForScore(result.Score),
		StatusColor:    models.StatusColorClass(result.Status),
		Placeholder:    placeholder,
	}
}

func (w *workflow) currentResult() (models.AnalysisResult, bool) {
	if w.result == nil {
		return models.PlaceholderResult, true
	}
	return *w.result, false
}

// OpenApproval seeds a fresh editable draft from the current result's email.
func (w *workflow) OpenApproval() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sending {
		// The current draft is still on its way out; reseeding now would
		// hand the send's completion a draft it never saw.
		return
	}

	result, _ := w.currentResult()
	w.draft = models.NewReviewDraft(result.EmailDraft)
	w.modalOpen = true
}

func (w *workflow) UpdateDraft(subject, body string, autoReply bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.modalOpen || w.draft == nil {
		return ErrNoDraftOpen
	}

	w.draft.Subject = subject
	w.draft.Body = body
	w.draft.AutoReply = autoReply
	return nil
}

// Send simulates delivery: an artificial delay, one in-flight send per modal
// instance, then a terminal success that closes the modal. A real mail
// integration replaces the goroutine body without changing this contract.
func (w *workflow) Send() error {
	w.mu.Lock()
	if !w.modalOpen || w.draft == nil {
		w.mu.Unlock()
		return ErrNoDraftOpen
	}
	if w.sending {
		w.mu.Unlock()
		return nil
	}

	w.sending = true
	result, _ := w.currentResult()
	candidateName := result.CandidateName
	w.mu.Unlock()

	go func() {
		time.Sleep(w.sendDelay)

		w.mu.Lock()
		defer w.mu.Unlock()

		w.sending = false
		w.modalOpen = false
		w.draft = nil
		w.notify(models.NotificationSuccess, fmt.Sprintf("Email sent to %s.", candidateName))
	}()

	return nil
}

// CloseApproval discards the draft without sending.
func (w *workflow) CloseApproval() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sending {
		// Let the in-flight send finish and close the modal itself
		return
	}
	w.modalOpen = false
	w.draft = nil
}

func (w *workflow) Snapshot() models.StateSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := models.StateSnapshot{
		View:          w.view,
		JobDesc:       slotSnapshot(&w.jobDesc),
		Resume:        slotSnapshot(&w.resume),
		AnalyzeReady:  w.jobDesc.extracted && w.resume.extracted && !w.analyzing,
		Analyzing:     w.analyzing,
		ModalOpen:     w.modalOpen,
		Sending:       w.sending,
		Notifications: append([]models.Notification(nil), w.notifications...),
	}

	if w.result != nil {
		result := *w.result
		snap.Result = &result
	}
	if w.draft != nil {
		draft := *w.draft
		snap.Draft = &draft
	}

	return snap
}

func slotSnapshot(st *slotState) models.SlotSnapshot {
	snap := models.SlotSnapshot{
		Extracting:    st.extracting,
		Extracted:     st.extracted,
		CandidateHint: st.hint,
	}
	if st.doc != nil {
		doc := *st.doc
		snap.Document = &doc
	}
	return snap
}

// notify appends a toast-style message; callers hold the lock.
func (w *workflow) notify(level models.NotificationLevel, message string) {
	w.notifications = append(w.notifications, models.Notification{
		Level:   level,
		Message: message,
		Time:    time.Now(),
	})
	if len(w.notifications) > maxNotifications {
		w.notifications = w.notifications[len(w.notifications)-maxNotifications:]
	}
}
