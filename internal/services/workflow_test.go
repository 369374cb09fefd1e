package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"recruitai/assistant/internal/models"
)

type fakeExtractor struct {
	texts map[string]string // originalName -> text
}

func (f *fakeExtractor) ExtractText(filePath, originalName string) (string, error) {
	text, ok := f.texts[originalName]
	if !ok {
		return "", &ExtractionError{File: originalName, Err: errors.New("unreadable")}
	}
	return text, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeStorage) SaveFile(file *multipart.FileHeader, slot string) (string, string, error) {
	return "", "", errors.New("not implemented")
}

func (f *fakeStorage) GetFilePath(filename string) string { return filename }

func (f *fakeStorage) DeleteFile(filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, filename)
	return nil
}

func (f *fakeStorage) EnsureUploadDir() error { return nil }

func (f *fakeStorage) removedFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

type fakeAnalysisClient struct {
	mu     sync.Mutex
	calls  int
	result models.AnalysisResult
	err    error
	block  chan struct{} // when set, Analyze waits until closed
}

func (f *fakeAnalysisClient) Analyze(ctx context.Context, candidateName, resumeText, jobDescriptionText string) (*models.AnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	result := f.result
	if candidateName == "" {
		candidateName = DefaultCandidateName
	}
	result.CandidateName = candidateName
	return &result, nil
}

func (f *fakeAnalysisClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func attach(w Workflow, slot models.DocumentSlot, originalName string) {
	w.AttachDocument(&models.Document{
		ID:               uuid.New(),
		Slot:             slot,
		Filename:         fmt.Sprintf("%s_%s", slot, originalName),
		OriginalFileName: originalName,
		FilePath:         "/tmp/" + originalName,
		UploadedAt:       time.Now(),
	})
}

func interviewResult() models.AnalysisResult {
	return models.AnalysisResult{
		Score:   85,
		Status:  models.StatusInterview,
		Summary: "Strong backend profile.",
		Pros:    []string{"Go experience"},
		Cons:    []string{"No Kubernetes"},
		EmailDraft: models.EmailDraft{
			Subject: "Hi",
			Body:    "Let's talk",
		},
	}
}

func TestAnalyzeGuardRequiresBothSlots(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"jd.txt": "jd text"}}
	client := &fakeAnalysisClient{result: interviewResult()}
	w := NewWorkflow(extractor, client, &fakeStorage{}, time.Millisecond)

	if err := w.Analyze(); !errors.Is(err, ErrAnalyzeNotReady) {
		t.Fatalf("expected ErrAnalyzeNotReady, got %v", err)
	}

	attach(w, models.SlotJobDescription, "jd.txt")
	waitFor(t, "jd extraction", func() bool { return w.Snapshot().JobDesc.Extracted })

	if err := w.Analyze(); !errors.Is(err, ErrAnalyzeNotReady) {
		t.Fatalf("expected ErrAnalyzeNotReady with empty resume slot, got %v", err)
	}
	if client.callCount() != 0 {
		t.Fatalf("guard failures must not call the client, got %d calls", client.callCount())
	}
}

func TestUploadAnalyzeReviewFlow(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"jd.txt":     "Senior Engineer, 5 years Go",
		"resume.txt": "5 years backend experience",
	}}
	client := &fakeAnalysisClient{result: interviewResult()}
	w := NewWorkflow(extractor, client, &fakeStorage{}, time.Millisecond)

	if err := w.Navigate(models.ViewUpload); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	attach(w, models.SlotJobDescription, "jd.txt")
	attach(w, models.SlotResume, "resume.txt")
	waitFor(t, "both extractions", func() bool { return w.Snapshot().AnalyzeReady })

	if err := w.Analyze(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	waitFor(t, "analysis result", func() bool { return w.Snapshot().Result != nil })

	snap := w.Snapshot()
	if snap.View != models.ViewCandidate {
		t.Fatalf("expected candidate view after analysis, got %s", snap.View)
	}
	candidate := w.Candidate()
	if candidate.Placeholder {
		t.Fatal("result should not be the placeholder")
	}
	if candidate.Recommendation != models.RecommendationPositive {
		t.Fatalf("score 85: expected positive bucket, got %s", candidate.Recommendation)
	}
	if candidate.Result.CandidateName != "resume" {
		t.Fatalf("expected filename-derived name, got %q", candidate.Result.CandidateName)
	}
}

func TestAnalyzeFailureStaysOnUpload(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"jd.txt":     "jd text",
		"resume.txt": "resume text",
	}}
	client := &fakeAnalysisClient{err: &AnalysisError{Err: errors.New("HTTP 500")}}
	w := NewWorkflow(extractor, client, &fakeStorage{}, time.Millisecond)

	w.Navigate(models.ViewUpload)
	attach(w, models.SlotJobDescription, "jd.txt")
	attach(w, models.SlotResume, "resume.txt")
	waitFor(t, "both extractions", func() bool { return w.Snapshot().AnalyzeReady })

	if err := w.Analyze(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	waitFor(t, "analysis to settle", func() bool { return !w.Snapshot().Analyzing })

	snap := w.Snapshot()
	if snap.View != models.ViewUpload {
		t.Fatalf("failed analysis must keep the upload view, got %s", snap.View)
	}
	if snap.Result != nil {
		t.Fatal("no result should be applied on failure")
	}
	found := false
	for _, n := range snap.Notifications {
		if n.Level == models.NotificationError {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an error notification")
	}
}

func TestAnalyzeInFlightIsNoOp(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"jd.txt":     "jd text",
		"resume.txt": "resume text",
	}}
	client := &fakeAnalysisClient{result: interviewResult(), block: make(chan struct{})}
	w := NewWorkflow(extractor, client, &fakeStorage{}, time.Millisecond)

	attach(w, models.SlotJobDescription, "jd.txt")
	attach(w, models.SlotResume, "resume.txt")
	waitFor(t, "both extractions", func() bool { return w.Snapshot().AnalyzeReady })

	if err := w.Analyze(); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	waitFor(t, "in-flight flag", func() bool { return w.Snapshot().Analyzing })

	if err := w.Analyze(); err != nil {
		t.Fatalf("second analyze should be a silent no-op, got %v", err)
	}

	close(client.block)
	waitFor(t, "analysis to settle", func() bool { return !w.Snapshot().Analyzing })

	if client.callCount() != 1 {
		t.Fatalf("expected exactly 1 request, got %d", client.callCount())
	}
}

func TestStaleResultAppliesWithoutNavigation(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"jd.txt":     "jd text",
		"resume.txt": "resume text",
	}}
	client := &fakeAnalysisClient{result: interviewResult(), block: make(chan struct{})}
	w := NewWorkflow(extractor, client, &fakeStorage{}, time.Millisecond)

	w.Navigate(models.ViewUpload)
	attach(w, models.SlotJobDescription, "jd.txt")
	attach(w, models.SlotResume, "resume.txt")
	waitFor(t, "both extractions", func() bool { return w.Snapshot().AnalyzeReady })

	if err := w.Analyze(); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// User navigates away while the call is still in flight
	w.Navigate(models.ViewDashboard)
	close(client.block)
	waitFor(t, "analysis result", func() bool { return w.Snapshot().Result != nil })

	snap := w.Snapshot()
	if snap.View != models.ViewDashboard {
		t.Fatalf("late result must not force navigation, got view %s", snap.View)
	}
	if snap.Result == nil || snap.Result.Score != 85 {
		t.Fatal("late result must still be applied to state")
	}
}

func TestApprovalDraftLifecycle(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"jd.txt":               "jd text",
		"alex-chen-resume.txt": "resume text",
	}}
	client := &fakeAnalysisClient{result: interviewResult()}
	w := NewWorkflow(extractor, client, &fakeStorage{}, 10*time.Millisecond)

	w.Navigate(models.ViewUpload)
	attach(w, models.SlotJobDescription, "jd.txt")
	attach(w, models.SlotResume, "alex-chen-resume.txt")
	waitFor(t, "both extractions", func() bool { return w.Snapshot().AnalyzeReady })
	if err := w.Analyze(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	waitFor(t, "analysis result", func() bool { return w.Snapshot().Result != nil })

	w.OpenApproval()
	snap := w.Snapshot()
	if !snap.ModalOpen || snap.Draft == nil {
		t.Fatal("approval modal should be open with a seeded draft")
	}
	if snap.Draft.Subject != "Hi" || snap.Draft.Body != "Let's talk" {
		t.Fatalf("draft not seeded from result: %+v", snap.Draft)
	}

	if err := w.UpdateDraft("Hi", "Let's talk Tuesday", true); err != nil {
		t.Fatalf("update draft: %v", err)
	}

	if err := w.Send(); err != nil {
		t.Fatalf("send: %v", err)
	}
	// A second send on the same draft is disabled while in flight
	if err := w.Send(); err != nil {
		t.Fatalf("second send should be a no-op, got %v", err)
	}

	waitFor(t, "send to complete", func() bool { return !w.Snapshot().ModalOpen })

	snap = w.Snapshot()
	if snap.Draft != nil {
		t.Fatal("draft should be discarded after send")
	}
	if snap.Result.EmailDraft.Body != "Let's talk" {
		t.Fatalf("original email draft must stay unmodified, got %q", snap.Result.EmailDraft.Body)
	}

	successes := 0
	named := false
	for _, n := range snap.Notifications {
		if n.Level == models.NotificationSuccess && strings.Contains(n.Message, "Email sent") {
			successes++
			if strings.Contains(n.Message, "alex chen resume") {
				named = true
			}
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one send confirmation, got %d", successes)
	}
	if !named {
		t.Fatal("send confirmation should reference the candidate's name")
	}
}

func TestCloseDiscardsDraftEdits(t *testing.T) {
	client := &fakeAnalysisClient{result: interviewResult()}
	w := NewWorkflow(&fakeExtractor{}, client, &fakeStorage{}, time.Millisecond)

	w.OpenApproval()
	if err := w.UpdateDraft("Edited", "Edited body", false); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	w.CloseApproval()

	snap := w.Snapshot()
	if snap.ModalOpen || snap.Draft != nil {
		t.Fatal("close should discard the draft")
	}
	if err := w.UpdateDraft("x", "y", true); !errors.Is(err, ErrNoDraftOpen) {
		t.Fatalf("expected ErrNoDraftOpen after close, got %v", err)
	}

	// Reopening reseeds from the source; edits are gone
	w.OpenApproval()
	snap = w.Snapshot()
	if snap.Draft.Subject == "Edited" {
		t.Fatal("reopened draft should be reseeded, not keep discarded edits")
	}
}

func TestExtractionFailureEmptiesSlot(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"jd.txt": "jd text"}}
	client := &fakeAnalysisClient{result: interviewResult()}
	w := NewWorkflow(extractor, client, &fakeStorage{}, time.Millisecond)

	attach(w, models.SlotJobDescription, "jd.txt")
	waitFor(t, "jd extraction", func() bool { return w.Snapshot().JobDesc.Extracted })

	// Replace with a file the extractor cannot read
	attach(w, models.SlotJobDescription, "broken.pdf")
	waitFor(t, "extraction to settle", func() bool { return !w.Snapshot().JobDesc.Extracting })

	snap := w.Snapshot()
	if snap.JobDesc.Extracted {
		t.Fatal("previous text must not survive a failed replacement")
	}
	if snap.JobDesc.Document != nil {
		t.Fatal("failed slot should be left empty")
	}
	found := false
	for _, n := range snap.Notifications {
		if n.Level == models.NotificationError && strings.Contains(n.Message, "broken.pdf") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an extraction error notification")
	}
}

func TestReplacedDocumentRemovedFromStorage(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"resume-v1.txt": "first draft",
		"resume-v2.txt": "second draft",
	}}
	client := &fakeAnalysisClient{result: interviewResult()}
	storage := &fakeStorage{}
	w := NewWorkflow(extractor, client, storage, time.Millisecond)

	attach(w, models.SlotResume, "resume-v1.txt")
	waitFor(t, "first extraction", func() bool { return w.Snapshot().Resume.Extracted })

	attach(w, models.SlotResume, "resume-v2.txt")
	waitFor(t, "second extraction", func() bool {
		snap := w.Snapshot().Resume
		return snap.Extracted && snap.Document.OriginalFileName == "resume-v2.txt"
	})

	removed := storage.removedFiles()
	if len(removed) != 1 || removed[0] != "resume_resume-v1.txt" {
		t.Fatalf("expected only the replaced file to be removed, got %v", removed)
	}
}

func TestFailedExtractionRemovesStoredFile(t *testing.T) {
	extractor := &fakeExtractor{}
	client := &fakeAnalysisClient{result: interviewResult()}
	storage := &fakeStorage{}
	w := NewWorkflow(extractor, client, storage, time.Millisecond)

	attach(w, models.SlotResume, "broken.pdf")
	waitFor(t, "extraction to settle", func() bool { return !w.Snapshot().Resume.Extracting })

	removed := storage.removedFiles()
	if len(removed) != 1 || removed[0] != "resume_broken.pdf" {
		t.Fatalf("expected the unreadable file to be removed, got %v", removed)
	}
}

func TestOpenApprovalIgnoredWhileSending(t *testing.T) {
	client := &fakeAnalysisClient{result: interviewResult()}
	w := NewWorkflow(&fakeExtractor{}, client, &fakeStorage{}, 50*time.Millisecond)

	w.OpenApproval()
	if err := w.UpdateDraft("Edited", "Edited body", false); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if err := w.Send(); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Reopening mid-send must not reseed the draft the send is carrying
	w.OpenApproval()
	snap := w.Snapshot()
	if !snap.Sending {
		t.Fatal("send should still be in flight")
	}
	if snap.Draft == nil || snap.Draft.Subject != "Edited" {
		t.Fatalf("draft must survive a reopen attempt during send, got %+v", snap.Draft)
	}

	waitFor(t, "send to complete", func() bool { return !w.Snapshot().ModalOpen })

	snap = w.Snapshot()
	if snap.Draft != nil {
		t.Fatal("completed send should leave no dangling draft")
	}
	if snap.Sending {
		t.Fatal("sending flag should be cleared")
	}

	// Once the send has finished, opening a fresh draft works again
	w.OpenApproval()
	if snap = w.Snapshot(); !snap.ModalOpen || snap.Draft == nil {
		t.Fatal("reopen after send should seed a new draft")
	}
}

func TestCandidatePlaceholderFallback(t *testing.T) {
	w := NewWorkflow(&fakeExtractor{}, &fakeAnalysisClient{}, &fakeStorage{}, time.Millisecond)

	candidate := w.Candidate()
	if !candidate.Placeholder {
		t.Fatal("expected placeholder before any analysis")
	}
	if candidate.Result.CandidateName != models.PlaceholderResult.CandidateName {
		t.Fatalf("unexpected placeholder candidate: %q", candidate.Result.CandidateName)
	}
	if candidate.Recommendation != models.RecommendationPositive {
		t.Fatalf("placeholder score %d: expected positive, got %s", candidate.Result.Score, candidate.Recommendation)
	}
}
