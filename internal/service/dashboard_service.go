package service

import (
	"fmt"
	"sort"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/repository"
	"taskflow/internal/utils"
)

// WeekSummary aggregates one week's tasks
type WeekSummary struct {
	WeekStart      string `json:"week_start"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
	PendingTasks   int    `json:"pending_tasks"`
	CompletionRate int    `json:"completion_rate"`
}

// CurrentWeekStats summarizes the user's active tasks as a whole
type CurrentWeekStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
}

// DashboardStats is the stats endpoint payload
type DashboardStats struct {
	CurrentWeek CurrentWeekStats `json:"currentWeek"`
	WeeklyData  []WeekSummary    `json:"weeklyData"`
}

// DayTrend aggregates tasks created on one day
type DayTrend struct {
	Date           string `json:"date"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
}

// PriorityStats aggregates tasks of one priority level
type PriorityStats struct {
	Priority  int `json:"priority"`
	Count     int `json:"count"`
	Completed int `json:"completed"`
}

// DashboardAnalytics is the analytics endpoint payload
type DashboardAnalytics struct {
	Trends               []DayTrend      `json:"trends"`
	PriorityDistribution []PriorityStats `json:"priorityDistribution"`
	Timeframe            string          `json:"timeframe"`
}

// recentWeeks is how many weeks of history the stats view shows
const recentWeeks = 4

// DashboardService aggregates task data for the dashboard views
type DashboardService struct {
	taskRepo *repository.TaskRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(taskRepo *repository.TaskRepository) *DashboardService {
	return &DashboardService{taskRepo: taskRepo}
}

// GetStats returns per-week completion summaries plus overall totals,
// computed over the user's active (non-archived) tasks.
func (s *DashboardService) GetStats(userID int64) (*DashboardStats, error) {
	tasks, err := s.taskRepo.GetActiveTasks(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	return buildStats(tasks), nil
}

// GetAnalytics returns daily creation trends over the timeframe and
// the distribution of tasks across priority levels. Timeframe is one
// of "week", "month" (default) or "year".
func (s *DashboardService) GetAnalytics(userID int64, timeframe string) (*DashboardAnalytics, error) {
	tasks, err := s.taskRepo.GetActiveTasks(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	return buildAnalytics(tasks, timeframe, time.Now()), nil
}

func buildStats(tasks []models.Task) *DashboardStats {
	byWeek := make(map[string][]models.Task)
	for _, task := range tasks {
		key := task.WeekStart.String()
		byWeek[key] = append(byWeek[key], task)
	}

	weeks := make([]string, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))
	if len(weeks) > recentWeeks {
		weeks = weeks[:recentWeeks]
	}

	weeklyData := make([]WeekSummary, 0, len(weeks))
	for _, week := range weeks {
		total, completed := countCompleted(byWeek[week])
		weeklyData = append(weeklyData, WeekSummary{
			WeekStart:      week,
			TotalTasks:     total,
			CompletedTasks: completed,
			PendingTasks:   total - completed,
			CompletionRate: utils.CompletionRate(completed, total),
		})
	}

	total, completed := countCompleted(tasks)
	return &DashboardStats{
		CurrentWeek: CurrentWeekStats{
			TotalTasks:     total,
			CompletedTasks: completed,
			PendingTasks:   total - completed,
		},
		WeeklyData: weeklyData,
	}
}

func buildAnalytics(tasks []models.Task, timeframe string, now time.Time) *DashboardAnalytics {
	var days int
	switch timeframe {
	case "week":
		days = 7
	case "year":
		days = 365
	default:
		timeframe = "month"
		days = 30
	}
	since := now.AddDate(0, 0, -days)

	byDay := make(map[string][]models.Task)
	byPriority := make(map[int][]models.Task)
	for _, task := range tasks {
		if !task.CreatedAt.After(since) {
			continue
		}
		byDay[utils.FormatDate(task.CreatedAt)] = append(byDay[utils.FormatDate(task.CreatedAt)], task)
		byPriority[task.Priority] = append(byPriority[task.Priority], task)
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	trends := make([]DayTrend, 0, len(dates))
	for _, date := range dates {
		total, completed := countCompleted(byDay[date])
		trends = append(trends, DayTrend{
			Date:           date,
			TotalTasks:     total,
			CompletedTasks: completed,
		})
	}

	distribution := make([]PriorityStats, 0, len(byPriority))
	for priority := models.PriorityMin; priority <= models.PriorityMax; priority++ {
		group, ok := byPriority[priority]
		if !ok {
			continue
		}
		total, completed := countCompleted(group)
		distribution = append(distribution, PriorityStats{
			Priority:  priority,
			Count:     total,
			Completed: completed,
		})
	}

	return &DashboardAnalytics{
		Trends:               trends,
		PriorityDistribution: distribution,
		Timeframe:            timeframe,
	}
}

func countCompleted(tasks []models.Task) (total, completed int) {
	total = len(tasks)
	for _, task := range tasks {
		if task.IsCompleted() {
			completed++
		}
	}
	return total, completed
}
