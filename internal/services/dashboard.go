package services

import (
	"context"

	"github.com/tahcohcat/studyquest/internal/models"
)

const (
	dashboardAchievements = 3
	dashboardPosts        = 5
)

type DashboardService struct {
	users        *UserService
	achievements *AchievementService
	posts        *PostService
	motivation   *MotivationService
}

func NewDashboardService(users *UserService, achievements *AchievementService, posts *PostService, motivation *MotivationService) *DashboardService {
	return &DashboardService{users: users, achievements: achievements, posts: posts, motivation: motivation}
}

func (s *DashboardService) Get(ctx context.Context, userID string) (*models.Dashboard, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.achievements.Recent(ctx, userID, dashboardAchievements)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.Feed(ctx, dashboardPosts)
	if err != nil {
		return nil, err
	}
	needs, err := s.motivation.NeedsCheckIn(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Dashboard{
		Profile:                profile,
		RecentAchievements:     recent,
		RecentPosts:            posts,
		NeedsMotivationCheckIn: needs,
	}, nil
}
