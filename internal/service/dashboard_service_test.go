package service

import (
	"testing"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/utils"
)

func weekOf(year int, month time.Month, day int) models.Date {
	return models.NewDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func makeTask(week models.Date, status string, priority int, createdAt time.Time) models.Task {
	return models.Task{
		WeekStart: week,
		Status:    status,
		Priority:  priority,
		CreatedAt: createdAt,
	}
}

func TestBuildStats(t *testing.T) {
	current := weekOf(2025, time.March, 9)
	lastWeek := weekOf(2025, time.March, 2)
	old1 := weekOf(2025, time.February, 23)
	old2 := weekOf(2025, time.February, 16)
	old3 := weekOf(2025, time.February, 9)

	now := time.Now()
	tasks := []models.Task{
		makeTask(current, models.StatusCompleted, 1, now),
		makeTask(current, models.StatusPending, 1, now),
		makeTask(current, models.StatusPending, 1, now),
		makeTask(lastWeek, models.StatusCompleted, 1, now),
		makeTask(old1, models.StatusPending, 1, now),
		makeTask(old2, models.StatusCompleted, 1, now),
		makeTask(old3, models.StatusPending, 1, now),
	}

	stats := buildStats(tasks)

	// Overall totals across every active task
	if stats.CurrentWeek.TotalTasks != 7 {
		t.Errorf("expected 7 total tasks, got %d", stats.CurrentWeek.TotalTasks)
	}
	if stats.CurrentWeek.CompletedTasks != 3 {
		t.Errorf("expected 3 completed, got %d", stats.CurrentWeek.CompletedTasks)
	}
	if stats.CurrentWeek.PendingTasks != 4 {
		t.Errorf("expected 4 pending, got %d", stats.CurrentWeek.PendingTasks)
	}

	// Only the four most recent weeks, newest first
	if len(stats.WeeklyData) != 4 {
		t.Fatalf("expected 4 weeks, got %d", len(stats.WeeklyData))
	}
	expectedOrder := []string{"2025-03-09", "2025-03-02", "2025-02-23", "2025-02-16"}
	for i, want := range expectedOrder {
		if stats.WeeklyData[i].WeekStart != want {
			t.Errorf("week %d = %s, want %s", i, stats.WeeklyData[i].WeekStart, want)
		}
	}

	if stats.WeeklyData[0].PendingTasks != 2 {
		t.Errorf("expected 2 pending in the current week, got %d", stats.WeeklyData[0].PendingTasks)
	}
	if stats.WeeklyData[1].CompletionRate != 100 || stats.WeeklyData[1].PendingTasks != 0 {
		t.Errorf("expected 100%% and nothing pending for last week, got %+v", stats.WeeklyData[1])
	}
}

func TestBuildStatsEmpty(t *testing.T) {
	stats := buildStats(nil)

	if stats.CurrentWeek.TotalTasks != 0 || stats.CurrentWeek.PendingTasks != 0 {
		t.Errorf("expected zero current week stats, got %+v", stats.CurrentWeek)
	}
	if len(stats.WeeklyData) != 0 {
		t.Errorf("expected no weekly data, got %d entries", len(stats.WeeklyData))
	}
}

func TestBuildAnalyticsTimeframes(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	week := weekOf(2025, time.March, 9)

	tasks := []models.Task{
		makeTask(week, models.StatusCompleted, 1, now.AddDate(0, 0, -1)),
		makeTask(week, models.StatusPending, 2, now.AddDate(0, 0, -10)),
		makeTask(week, models.StatusPending, 3, now.AddDate(0, 0, -100)),
	}

	tests := []struct {
		timeframe      string
		expectedFrame  string
		expectedTrends int
	}{
		{"week", "week", 1},
		{"month", "month", 2},
		{"year", "year", 3},
		{"", "month", 2},
		{"bogus", "month", 2},
	}

	for _, tt := range tests {
		t.Run(tt.timeframe, func(t *testing.T) {
			analytics := buildAnalytics(tasks, tt.timeframe, now)
			if analytics.Timeframe != tt.expectedFrame {
				t.Errorf("timeframe = %q, want %q", analytics.Timeframe, tt.expectedFrame)
			}
			if len(analytics.Trends) != tt.expectedTrends {
				t.Errorf("trends = %d entries, want %d", len(analytics.Trends), tt.expectedTrends)
			}
		})
	}
}

func TestBuildAnalyticsTrendsAndDistribution(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	week := weekOf(2025, time.March, 9)
	yesterday := now.AddDate(0, 0, -1)

	tasks := []models.Task{
		makeTask(week, models.StatusCompleted, 3, yesterday),
		makeTask(week, models.StatusPending, 3, yesterday),
		makeTask(week, models.StatusPending, 1, now.AddDate(0, 0, -2)),
		makeTask(weekOf(2025, time.February, 16), models.StatusCompleted, 2, now.AddDate(0, 0, -20)),
	}

	analytics := buildAnalytics(tasks, "week", now)

	if len(analytics.Trends) != 2 {
		t.Fatalf("expected 2 trend days, got %d", len(analytics.Trends))
	}
	// Newest day first
	if analytics.Trends[0].Date != "2025-03-14" {
		t.Errorf("expected newest day first, got %s", analytics.Trends[0].Date)
	}
	if analytics.Trends[0].TotalTasks != 2 || analytics.Trends[0].CompletedTasks != 1 {
		t.Errorf("unexpected trend counts: %+v", analytics.Trends[0])
	}

	// Distribution covers the same window as the trends, so the
	// twenty-day-old priority-2 task stays out
	if len(analytics.PriorityDistribution) != 2 {
		t.Fatalf("expected 2 priority buckets, got %d", len(analytics.PriorityDistribution))
	}
	if analytics.PriorityDistribution[0].Priority != 1 || analytics.PriorityDistribution[0].Count != 1 {
		t.Errorf("unexpected low-priority bucket: %+v", analytics.PriorityDistribution[0])
	}
	if analytics.PriorityDistribution[1].Priority != 3 || analytics.PriorityDistribution[1].Count != 2 || analytics.PriorityDistribution[1].Completed != 1 {
		t.Errorf("unexpected high-priority bucket: %+v", analytics.PriorityDistribution[1])
	}
}

func TestDashboardExcludesArchivedTasks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	userID := env.createUser(t, "alice", "alice@example.com")

	if _, err := env.taskService.CreateTask(userID, "this week", "", 1, ""); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	twoWeeksAgo := models.NewDate(utils.WeekStart(time.Now()).AddDate(0, 0, -14))
	backdateTask(t, env, userID, "old task", twoWeeksAgo)

	if _, err := env.taskService.ArchiveOldTasks(userID); err != nil {
		t.Fatalf("ArchiveOldTasks failed: %v", err)
	}

	stats, err := env.dashboard.GetStats(userID)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.CurrentWeek.TotalTasks != 1 {
		t.Errorf("expected 1 active task in totals, got %d", stats.CurrentWeek.TotalTasks)
	}
	if len(stats.WeeklyData) != 1 {
		t.Fatalf("expected the archived week to drop out, got %d weeks", len(stats.WeeklyData))
	}
	if stats.WeeklyData[0].WeekStart == twoWeeksAgo.String() {
		t.Errorf("archived week still present: %s", stats.WeeklyData[0].WeekStart)
	}

	analytics, err := env.dashboard.GetAnalytics(userID, "week")
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	total := 0
	for _, bucket := range analytics.PriorityDistribution {
		total += bucket.Count
	}
	if total != 1 {
		t.Errorf("expected distribution over 1 active task, got %d", total)
	}
}
