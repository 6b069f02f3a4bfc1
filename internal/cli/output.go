package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case SessionSummary:
		o.printSummary(v)
	case Participant:
		o.printParticipant(v)
	case []Participant:
		o.printParticipants(v)
	case Match:
		o.printMatch(v)
	case []Match:
		o.printMatches(v)
	case EstimatedWait:
		o.printEstimatedWait(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Court response type (matches API)
type Court struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Session response type
type Session struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Courts        []Court `json:"courts"`
	TargetMatches int     `json:"target_matches"`
	Phase         string  `json:"phase"`
}

// SessionSummary response type
type SessionSummary struct {
	SessionID             string  `json:"session_id"`
	Name                  string  `json:"name"`
	Phase                 string  `json:"phase"`
	CheckedIn             int     `json:"checked_in"`
	Waiting               int     `json:"waiting"`
	ActiveMatches         int     `json:"active_matches"`
	CompletedMatches      int     `json:"completed_matches"`
	TargetMatches         int     `json:"target_matches"`
	Progress              float64 `json:"progress"`
	MeanMatchDurationSecs int     `json:"mean_match_duration_secs"`
	PhaseForced           bool    `json:"phase_forced"`
}

// Participant response type
type Participant struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"display_name"`
	Skill        string     `json:"skill"`
	CheckedIn    bool       `json:"checked_in"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CurrentMatch *string    `json:"current_match,omitempty"`
}

// Score response type
type Score struct {
	TeamA int `json:"team_a"`
	TeamB int `json:"team_b"`
}

// Match response type
type Match struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Court       string     `json:"court"`
	TeamA       []string   `json:"team_a"`
	TeamB       []string   `json:"team_b"`
	Score       Score      `json:"score"`
	CurrentSet  int        `json:"current_set"`
	Status      string     `json:"status"`
	Winner      *string    `json:"winner,omitempty"`
	GamePoint   bool       `json:"game_point"`
	Revocable   bool       `json:"revocable"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// EstimatedWait response type
type EstimatedWait struct {
	ParticipantID string `json:"participant_id"`
	WaitSecs      int    `json:"wait_secs"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	if s.Name != "" {
		fmt.Printf("Name: %s\n", s.Name)
	}
	fmt.Printf("Phase: %s\n", s.Phase)
	fmt.Printf("Target Matches: %d\n", s.TargetMatches)
	fmt.Printf("Courts (%d):\n", len(s.Courts))
	for _, c := range s.Courts {
		state := "free"
		if !c.Available {
			state = "in play"
		}
		fmt.Printf("  - %s (%s) - %s\n", c.Name, c.ID, state)
	}
}

func (o *Output) printSummary(s SessionSummary) {
	fmt.Printf("Session: %s\n", s.SessionID)
	if s.Name != "" {
		fmt.Printf("Name: %s\n", s.Name)
	}
	forcedStr := ""
	if s.PhaseForced {
		forcedStr = " [forced]"
	}
	fmt.Printf("Phase: %s%s\n", s.Phase, forcedStr)
	fmt.Printf("Checked In: %d\n", s.CheckedIn)
	fmt.Printf("Waiting: %d\n", s.Waiting)
	fmt.Printf("Matches: %d playing, %d completed of %d target (%.0f%%)\n",
		s.ActiveMatches, s.CompletedMatches, s.TargetMatches, s.Progress*100)
	if s.MeanMatchDurationSecs > 0 {
		fmt.Printf("Mean Match Duration: %s\n", (time.Duration(s.MeanMatchDurationSecs) * time.Second).String())
	}
}

func (o *Output) printParticipant(p Participant) {
	checkedStr := "no"
	if p.CheckedIn {
		checkedStr = "yes"
	}
	fmt.Printf("Participant: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Skill: %s\n", p.Skill)
	fmt.Printf("Checked In: %s\n", checkedStr)
	if p.CurrentMatch != nil {
		fmt.Printf("Playing In: %s\n", *p.CurrentMatch)
	}
}

func (o *Output) printParticipants(ps []Participant) {
	fmt.Printf("Participants (%d):\n", len(ps))
	for _, p := range ps {
		status := "registered"
		if p.CheckedIn {
			status = "waiting"
		}
		if p.CurrentMatch != nil {
			status = "playing"
		}
		fmt.Printf("  - %s (%s) - %s, %s\n", p.DisplayName, p.ID, p.Skill, status)
	}
}

func (o *Output) printMatch(m Match) {
	fmt.Printf("Match: %s\n", m.ID)
	fmt.Printf("Court: %s\n", m.Court)
	fmt.Printf("Team A: %s\n", strings.Join(m.TeamA, ", "))
	fmt.Printf("Team B: %s\n", strings.Join(m.TeamB, ", "))
	fmt.Printf("Score: %d - %d\n", m.Score.TeamA, m.Score.TeamB)
	fmt.Printf("Status: %s\n", m.Status)
	if m.GamePoint {
		fmt.Println("Game Point!")
	}
	if m.Winner != nil {
		fmt.Printf("Winner: %s\n", *m.Winner)
	}
	if m.Revocable {
		fmt.Println("Last point can still be revoked")
	}
}

func (o *Output) printMatches(ms []Match) {
	fmt.Printf("Matches (%d):\n", len(ms))
	for _, m := range ms {
		extra := ""
		if m.Winner != nil {
			extra = fmt.Sprintf(" winner=%s", *m.Winner)
		}
		fmt.Printf("  - %s [%s] %s: %d - %d%s\n",
			m.ID, m.Status, m.Court, m.Score.TeamA, m.Score.TeamB, extra)
	}
}

func (o *Output) printEstimatedWait(w EstimatedWait) {
	fmt.Printf("Participant: %s\n", w.ParticipantID)
	fmt.Printf("Estimated Wait: %s\n", (time.Duration(w.WaitSecs) * time.Second).String())
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
