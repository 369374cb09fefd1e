package models

// EmailDraft is the outreach email proposed by the analysis service. The
// capitalized Subject tag matches the webhook wire format.
type EmailDraft struct {
	Subject string `json:"Subject"`
	Body    string `json:"body"`
}

// AnalysisResult is the structured output of one analysis call. It is
// immutable once stored on the workflow: a new call replaces it wholesale,
// and email edits happen on a separate ReviewDraft copy.
type AnalysisResult struct {
	Score         int        `json:"score"`
	Status        string     `json:"status"`
	Summary       string     `json:"summary"`
	Pros          []string   `json:"pros"`
	Cons          []string   `json:"cons"`
	EmailDraft    EmailDraft `json:"email_draft"`
	CandidateName string     `json:"candidate_name"`
}

// Recommendation buckets derived from the raw score.
type Recommendation string

const (
	RecommendationPositive Recommendation = "positive"
	RecommendationNeutral  Recommendation = "neutral"
	RecommendationNegative Recommendation = "negative"
)

// Score thresholds for the recommendation buckets.
const (
	PositiveScoreThreshold = 80
	NeutralScoreThreshold  = 60
)

func RecommendationForScore(score int) Recommendation {
	switch {
	case score >= PositiveScoreThreshold:
		return RecommendationPositive
	case score >= NeutralScoreThreshold:
		return RecommendationNeutral
	default:
		return RecommendationNegative
	}
}

// Recognized status labels driving UI color-coding. Any other label falls
// back to the neutral class.
const (
	StatusInterview = "Interview"
	StatusRejected  = "Rejected"
)

func StatusColorClass(status string) string {
	switch status {
	case StatusInterview:
		return "success"
	case StatusRejected:
		return "destructive"
	default:
		return "muted"
	}
}

// ReviewDraft is the user-editable working copy of the proposed email,
// owned by the approval step. It is reseeded from the current result every
// time the modal opens and discarded on send or close.
type ReviewDraft struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	AutoReply bool   `json:"auto_reply"`
}

func NewReviewDraft(source EmailDraft) *ReviewDraft {
	return &ReviewDraft{
		Subject:   source.Subject,
		Body:      source.Body,
		AutoReply: true,
	}
}

// PlaceholderResult is shown when the dashboard links into the candidate
// review before any analysis has run. It is the single default-data
// fallback; renderers receive it flagged as a placeholder.
var PlaceholderResult = AnalysisResult{
	Score:   92,
	Status:  StatusInterview,
	Summary: "Strong match. Alex demonstrates exceptional alignment with the Senior Tech Lead requirements, particularly with his 7 years of Python experience and recent leadership at a high-growth fintech startup.",
	Pros: []string{
		"Direct experience scaling payment infrastructure similar to our roadmap.",
		"Proven track record of managing distributed teams (5+ engineers).",
	},
	Cons: []string{
		"Salary expectation is slightly above the posted range base.",
		"Short tenure (1.5 years) at current role compared to history.",
	},
	EmailDraft: EmailDraft{
		Subject: "Interview Request: Senior Tech Lead Role @ TechCorp",
		Body: `Hi Alex,

I was impressed by your portfolio, specifically the case study on scalable design systems. It aligns perfectly with what we are building here.

I'd love to chat. Are you free this Tuesday at 2:00 PM or Wednesday at 10:00 AM?

Looking forward to hearing from you.

Best,
Sarah`,
	},
	CandidateName: "Alex Chen",
}
