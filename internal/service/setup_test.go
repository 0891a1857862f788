package service

import (
	"path/filepath"
	"testing"
	"time"

	"taskflow/internal/database"
	"taskflow/internal/repository"
)

type testEnv struct {
	db            *database.DB
	userRepo      *repository.UserRepository
	taskRepo      *repository.TaskRepository
	familyRepo    *repository.FamilyRepository
	authService   *AuthService
	taskService   *TaskService
	familyService *FamilyService
	dashboard     *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	emailService, err := NewEmailService("us-east-1", "", "", "http://localhost:3000")
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	familyRepo := repository.NewFamilyRepository(db)

	return &testEnv{
		db:            db,
		userRepo:      userRepo,
		taskRepo:      taskRepo,
		familyRepo:    familyRepo,
		authService:   NewAuthService(userRepo, emailService, []byte("test-secret"), time.Hour),
		taskService:   NewTaskService(taskRepo),
		familyService: NewFamilyService(familyRepo),
		dashboard:     NewDashboardService(taskRepo),
	}
}

// createUser inserts a user directly, bypassing registration
func (env *testEnv) createUser(t *testing.T, username, email string) int64 {
	t.Helper()
	user, err := env.userRepo.CreateUser(username, email, "test-hash")
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user.ID
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
