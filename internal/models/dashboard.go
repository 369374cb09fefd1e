package models

// Dashboard content is decorative: canned stats and activity shown on the
// landing view. Kept as named data rather than buried in a renderer.

type DashboardStat struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Subtext string `json:"subtext"`
	Change  string `json:"change,omitempty"`
}

type DashboardActivity struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Score       int    `json:"score,omitempty"`
	Description string `json:"description"`
	Highlight   string `json:"highlight"`
	Role        string `json:"role"`
	Time        string `json:"time"`
	Action      string `json:"action"`
	Clickable   bool   `json:"clickable"`
}

type ActiveRole struct {
	Title    string `json:"title"`
	NewCount int    `json:"new_count"`
}

type DashboardResponse struct {
	Date        string              `json:"date"`
	Greeting    string              `json:"greeting"`
	Stats       []DashboardStat     `json:"stats"`
	Activity    []DashboardActivity `json:"activity"`
	ActiveRoles []ActiveRole        `json:"active_roles"`
}

var DashboardStats = []DashboardStat{
	{Value: "24", Label: "Resumes Parsed", Subtext: "Since 9 AM", Change: "+12%"},
	{Value: "92%", Label: "Auto-Rejection Rate", Subtext: "AI filtered automatically"},
	{Value: "3.5", Label: "Hours Saved", Subtext: "This week"},
}

var DashboardActivities = []DashboardActivity{
	{
		ID:          1,
		Type:        "scheduled",
		Title:       "Interview Scheduled",
		Description: "Agent successfully scheduled interview with",
		Highlight:   "Jordan Lee",
		Role:        "for Senior Frontend Eng role.",
		Time:        "10m ago",
		Action:      "View Details",
	},
	{
		ID:          2,
		Type:        "match",
		Title:       "High Match Detected",
		Score:       92,
		Description: "Candidate from LinkedIn",
		Highlight:   "Alex Chen",
		Role:        "New application for Product Manager role matches top criteria.",
		Time:        "24m ago",
		Action:      "Review Profile",
		Clickable:   true,
	},
}

var ActiveRoles = []ActiveRole{
	{Title: "Senior Frontend Eng", NewCount: 24},
	{Title: "Product Manager", NewCount: 8},
}
