package progression

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tahcohcat/studyquest/internal/models"
)

// MatchesCategory reports whether an achievement's category falls under the
// requested one: an exact match, or a sub-category such as "motivation_risk"
// under "motivation".
func MatchesCategory(achievementCategory, category string) bool {
	return achievementCategory == category || strings.HasPrefix(achievementCategory, category+"_")
}

// EligibleAchievements returns, ordered by milestone, the achievements in
// category whose milestone is reached by value and that are not in unlocked.
func EligibleAchievements(all []models.Achievement, category string, value int, unlocked map[string]bool) []models.Achievement {
	var out []models.Achievement
	for _, a := range all {
		if !MatchesCategory(a.Category, category) || a.MilestoneValue > value {
			continue
		}
		if unlocked[a.ID] {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MilestoneValue < out[j].MilestoneValue
	})
	return out
}

func UnlockNotification(userID string, a models.Achievement) models.Notification {
	return models.Notification{
		Kind:    models.NotifyAchievementUnlocked,
		UserID:  userID,
		Title:   "Achievement Unlocked! 🏆",
		Message: fmt.Sprintf("%s - %s", a.Title, a.Description),
		Icon:    a.Icon,
		Data: map[string]interface{}{
			"achievement_id":  a.ID,
			"category":        a.Category,
			"milestone_value": a.MilestoneValue,
		},
	}
}
