package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
)

// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, profile, err := h.Users.CreateUser(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, ok := h.startSession(w, r, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"profile": profile,
		"token":   token,
	})
}

// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.Users.AuthenticateUser(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, ok := h.startSession(w, r, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) (string, bool) {
	if err := h.Auth.StartSession(w, r, user.ID); err != nil {
		h.fail(w, r, err)
		return "", false
	}
	token, err := h.Auth.IssueToken(user.ID, user.Email)
	if err != nil {
		h.fail(w, r, err)
		return "", false
	}
	return token, true
}

// POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.EndSession(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Users.GetProfile(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// PUT /api/v1/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	profile, err := h.Users.UpdateProfile(r.Context(), userID(r), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GET /api/v1/dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.Get(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GET /api/v1/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	stats, err := h.Motivation.Stats(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	activities, err := h.Achievements.Activities(r.Context(), id, queryInt(r, "activities", 20, 100))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"motivation": stats,
		"activities": activities,
	})
}

// GET /api/v1/posts
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.Feed(r.Context(), queryInt(r, "limit", 20, 100))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.Posts.Create(r.Context(), userID(r), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GET /api/v1/ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.Hub.ServeWS(w, r, userID(r))
}

// GET /api/v1/quests
func (h *Handler) ListQuests(w http.ResponseWriter, r *http.Request) {
	quests, err := h.Quests.List(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quests": quests})
}

// POST /api/v1/quests/{id}/complete
func (h *Handler) CompleteQuest(w http.ResponseWriter, r *http.Request) {
	out, err := h.Quests.Complete(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_quest": out.UserQuest,
		"profile":    out.Profile,
		"completed":  out.Completed,
		"xp_awarded": out.XPAwarded,
	})
}

// GET /api/v1/achievements
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := h.Achievements.List(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": list})
}

// GET /api/v1/mystery-boxes
func (h *Handler) ListBoxes(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	boxes, err := h.Boxes.List(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	inventory, err := h.Boxes.Inventory(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"boxes":     boxes,
		"inventory": inventory,
	})
}

// POST /api/v1/mystery-boxes/{id}/open
func (h *Handler) OpenBox(w http.ResponseWriter, r *http.Request) {
	out, err := h.Boxes.Open(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"box":        out.Box,
		"profile":    out.Profile,
		"inventory":  out.Inventory,
		"xp_awarded": out.XPAwarded,
	})
}

// POST /api/v1/motivation
func (h *Handler) SubmitMotivation(w http.ResponseWriter, r *http.Request) {
	var req models.MotivationRequest
	if !h.decode(w, r, &req) {
		return
	}
	score, unlocked, err := h.Motivation.Submit(r.Context(), userID(r), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"score":    score,
		"unlocked": unlocked,
	})
}

// GET /api/v1/motivation/today
func (h *Handler) MotivationToday(w http.ResponseWriter, r *http.Request) {
	needs, err := h.Motivation.NeedsCheckIn(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"needs_check_in": needs})
}

// POST /api/v1/emotions
func (h *Handler) LogEmotion(w http.ResponseWriter, r *http.Request) {
	var req models.EmotionRequest
	if !h.decode(w, r, &req) {
		return
	}
	log, err := h.Motivation.LogEmotion(r.Context(), userID(r), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

// GET /api/v1/goals?type=smart_goal
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Goals.List(r.Context(), userID(r), models.GoalType(r.URL.Query().Get("type")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

// POST /api/v1/goals/smart
func (h *Handler) CreateSmartGoal(w http.ResponseWriter, r *http.Request) {
	var req models.SmartGoalRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeGoal(w, r, http.StatusCreated)(h.Goals.CreateSmartGoal(r.Context(), userID(r), &req))
}

// POST /api/v1/goals/missions
func (h *Handler) CreateMission(w http.ResponseWriter, r *http.Request) {
	var req models.MissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeGoal(w, r, http.StatusCreated)(h.Goals.CreateMission(r.Context(), userID(r), &req))
}

// POST /api/v1/goals/habits
func (h *Handler) CreateHabitStack(w http.ResponseWriter, r *http.Request) {
	var req models.HabitStackRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeGoal(w, r, http.StatusCreated)(h.Goals.CreateHabitStack(r.Context(), userID(r), &req))
}

// PUT /api/v1/goals/{id}/progress
func (h *Handler) UpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req models.ProgressRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeGoal(w, r, http.StatusOK)(h.Goals.UpdateProgress(r.Context(), userID(r), mux.Vars(r)["id"], req.Value))
}

// PUT /api/v1/goals/{id}/column
func (h *Handler) MoveMission(w http.ResponseWriter, r *http.Request) {
	var req models.ColumnRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeGoal(w, r, http.StatusOK)(h.Goals.MoveMission(r.Context(), userID(r), mux.Vars(r)["id"], req.Column))
}

// POST /api/v1/goals/{id}/checkin
func (h *Handler) CheckInHabit(w http.ResponseWriter, r *http.Request) {
	goal, counted, err := h.Goals.CheckIn(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"goal":    goal,
		"counted": counted,
	})
}

// POST /api/v1/goals/{id}/{pause|resume|fail|complete|reopen}
func (h *Handler) TransitionGoal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.writeGoal(w, r, http.StatusOK)(h.Goals.Transition(r.Context(), userID(r), vars["id"], progression.GoalEvent(vars["event"])))
}

func (h *Handler) writeGoal(w http.ResponseWriter, r *http.Request, status int) func(*models.Goal, error) {
	return func(g *models.Goal, err error) {
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, status, g)
	}
}
