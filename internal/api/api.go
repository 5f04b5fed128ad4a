// Package api exposes the progression services over JSON HTTP.
package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tahcohcat/studyquest/internal/auth"
	"github.com/tahcohcat/studyquest/internal/coach"
	"github.com/tahcohcat/studyquest/internal/logger"
	"github.com/tahcohcat/studyquest/internal/metrics"
	"github.com/tahcohcat/studyquest/internal/progression"
	"github.com/tahcohcat/studyquest/internal/services"
	"github.com/tahcohcat/studyquest/internal/tts"
	"github.com/tahcohcat/studyquest/internal/websocket"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators the handlers call into.
type Deps struct {
	Auth         *auth.Manager
	Users        *services.UserService
	Posts        *services.PostService
	Quests       *services.QuestService
	Achievements *services.AchievementService
	Boxes        *services.MysteryBoxService
	Goals        *services.GoalService
	Motivation   *services.MotivationService
	Dashboard    *services.DashboardService
	Coach        *coach.Coach
	Speaker      tts.Speaker
	Hub          *websocket.Hub
}

type Handler struct {
	Deps
	validate *validator.Validate
	logger   *logger.Log
}

func NewHandler(d Deps) *Handler {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("api: failed to register notblank validation: %v", err))
	}
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if d.Speaker == nil {
		d.Speaker = tts.NewDummyTts()
	}
	return &Handler{Deps: d, validate: v, logger: logger.New().With("component", "api")}
}

// NewRouter builds the full route table: health and metrics at the root,
// the JSON API under /api/v1.
func NewRouter(d Deps) *mux.Router {
	h := NewHandler(d)

	r := mux.NewRouter()
	r.Use(instrument)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	h.RegisterRoutes(api)
	return r
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Public routes (no authentication required)
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)

	a := r.NewRoute().Subrouter()
	a.Use(h.Auth.Middleware)

	a.HandleFunc("/profile", h.GetProfile).Methods(http.MethodGet)
	a.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPut)
	a.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
	a.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)

	a.HandleFunc("/posts", h.ListPosts).Methods(http.MethodGet)
	a.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	a.HandleFunc("/ws", h.ServeWS).Methods(http.MethodGet)

	a.HandleFunc("/quests", h.ListQuests).Methods(http.MethodGet)
	a.HandleFunc("/quests/{id}/complete", h.CompleteQuest).Methods(http.MethodPost)

	a.HandleFunc("/achievements", h.ListAchievements).Methods(http.MethodGet)

	a.HandleFunc("/goals", h.ListGoals).Methods(http.MethodGet)
	a.HandleFunc("/goals/smart", h.CreateSmartGoal).Methods(http.MethodPost)
	a.HandleFunc("/goals/missions", h.CreateMission).Methods(http.MethodPost)
	a.HandleFunc("/goals/habits", h.CreateHabitStack).Methods(http.MethodPost)
	a.HandleFunc("/goals/{id}/progress", h.UpdateGoalProgress).Methods(http.MethodPut)
	a.HandleFunc("/goals/{id}/column", h.MoveMission).Methods(http.MethodPut)
	a.HandleFunc("/goals/{id}/checkin", h.CheckInHabit).Methods(http.MethodPost)
	a.HandleFunc("/goals/{id}/{event:pause|resume|fail|complete|reopen}", h.TransitionGoal).Methods(http.MethodPost)

	a.HandleFunc("/mystery-boxes", h.ListBoxes).Methods(http.MethodGet)
	a.HandleFunc("/mystery-boxes/{id}/open", h.OpenBox).Methods(http.MethodPost)

	a.HandleFunc("/motivation", h.SubmitMotivation).Methods(http.MethodPost)
	a.HandleFunc("/motivation/today", h.MotivationToday).Methods(http.MethodGet)
	a.HandleFunc("/emotions", h.LogEmotion).Methods(http.MethodPost)

	a.HandleFunc("/coach/briefing", h.Briefing).Methods(http.MethodPost)
	a.HandleFunc("/coach/briefing/audio", h.BriefingAudio).Methods(http.MethodPost)
	a.HandleFunc("/coach/chat", h.Chat).Methods(http.MethodPost)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.New().WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail writes err with the status its kind maps to. Unexpected errors are
// logged and answered with a generic 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ce *coach.Error
	if errors.As(err, &ce) {
		writeError(w, ce.Status, ce.Message)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.With("path", r.URL.Path).WithError(err).Error("Request failed")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, progression.ErrBoxAlreadyOpened),
		errors.Is(err, progression.ErrQuestAlreadyCompleted),
		errors.Is(err, progression.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, tts.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst and validates it, writing a 400 on
// failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func userID(r *http.Request) string {
	id, _ := auth.UserID(r.Context())
	return id
}

func queryInt(r *http.Request, key string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade through the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}
