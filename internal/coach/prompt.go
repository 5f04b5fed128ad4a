package coach

import (
	"fmt"
	"math"
	"strings"

	"github.com/tahcohcat/studyquest/internal/llm"
	"github.com/tahcohcat/studyquest/internal/models"
)

// Snapshot is what the morning briefing is written from.
type Snapshot struct {
	Profile  *models.Profile
	Scores   []models.MotivationScore
	Emotions []models.EmotionLog
	Goals    []models.Goal
}

var dimensionLabels = []struct {
	key, label string
}{
	{"risk", "Risk-taking"},
	{"diligence", "Diligence"},
	{"responsibility", "Responsibility"},
	{"collaboration", "Collaboration"},
	{"perseverance", "Perseverance"},
	{"planning", "Planning"},
}

func briefingMessages(p phrases, snap Snapshot) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: p.briefingSystem},
		{Role: llm.RoleUser, Content: briefingPrompt(p, snap)},
	}
}

func briefingPrompt(p phrases, snap Snapshot) string {
	var b strings.Builder

	name, streak, level, xp := p.defaultName, 0, 1, 0
	if prof := snap.Profile; prof != nil {
		if prof.Name != "" {
			name = prof.Name
		}
		streak, level, xp = prof.Streak, prof.Level, prof.XP
	}

	b.WriteString(p.studentHeader + "\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Streak: %d %s\n", streak, p.days)
	fmt.Fprintf(&b, "- Level: %d\n", level)
	fmt.Fprintf(&b, "- XP: %d\n", xp)

	if len(snap.Scores) > 0 {
		avg := averages(snap.Scores)
		b.WriteString("\n" + p.scoresHeader + "\n")
		for _, d := range dimensionLabels {
			fmt.Fprintf(&b, "- %s: %.1f/10\n", d.label, avg[d.key])
		}
	}

	if len(snap.Emotions) > 0 {
		b.WriteString("\n" + p.emotionsHeader + "\n")
		for _, e := range snap.Emotions {
			energy := "-"
			if e.EnergyLevel != nil {
				energy = fmt.Sprint(*e.EnergyLevel)
			}
			fmt.Fprintf(&b, "- %s (Energy: %s/5)\n", e.Emotion, energy)
		}
	}

	if len(snap.Goals) > 0 {
		b.WriteString("\n" + p.goalsHeader + "\n")
		for _, g := range snap.Goals {
			fmt.Fprintf(&b, "- %s (%d%%)\n", g.Title, percent(g))
		}
	}

	b.WriteString("\n" + p.briefingTask)
	return b.String()
}

func chatMessages(p phrases, history []llm.Message, message string) []llm.Message {
	if strings.TrimSpace(message) == "" {
		message = p.greeting
	}
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: p.chatSystem})
	for _, m := range history {
		// Clients may only replay user and assistant turns.
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			continue
		}
		msgs = append(msgs, m)
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
}

func averages(scores []models.MotivationScore) map[string]float64 {
	sums := make(map[string]int, len(dimensionLabels))
	for _, s := range scores {
		for k, v := range s.Dimensions() {
			sums[k] += v
		}
	}
	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = float64(v) / float64(len(scores))
	}
	return out
}

func percent(g models.Goal) int {
	if g.TargetValue == nil || *g.TargetValue <= 0 {
		return 0
	}
	return int(math.Round(float64(g.CurrentValue) / float64(*g.TargetValue) * 100))
}
