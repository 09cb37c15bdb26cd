// Package main provides a tool to seed the database with demo data.
//
// This creates demo users with a spread of tasks, documents and calendar
// events so list filtering, sorting and stats can be exercised by hand.
//
// Usage:
//
//	DB_PATH=~/daydesk/db go run ./cmd/seed
//	DB_PATH=~/daydesk/db go run ./cmd/seed --users 3
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/daydeskapp/daydesk-server/internal/auth"
	"github.com/daydeskapp/daydesk-server/internal/domain"
	"github.com/daydeskapp/daydesk-server/internal/id"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

var userCount = flag.Int("users", 1, "Number of demo users to create")

var demoNames = []string{"Dana Demo", "Alex Sample", "Riley Test", "Jordan Mock", "Casey Fixture"}

var taskTitles = []string{
	"Write project brief",
	"Review quarterly roadmap",
	"Update onboarding docs",
	"Fix login flow bug",
	"Prepare sprint demo",
	"Triage support inbox",
	"Draft release notes",
	"Clean up stale branches",
}

var statuses = []domain.TaskStatus{
	domain.TaskStatusTodo,
	domain.TaskStatusInProgress,
	domain.TaskStatusInReview,
	domain.TaskStatusBlocked,
	domain.TaskStatusCompleted,
}

var priorities = []domain.TaskPriority{
	domain.TaskPriorityLow,
	domain.TaskPriorityMedium,
	domain.TaskPriorityHigh,
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/daydesk/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	for n := 0; n < *userCount; n++ {
		user, err := createDemoUser(ctx, s, n)
		if err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		fmt.Printf("Created user %s (%s)\n", user.DisplayName, user.Email)

		if err := seedTasks(ctx, s, user.ID); err != nil {
			log.Fatalf("Failed to seed tasks: %v", err)
		}
		if err := seedDocuments(ctx, s, user.ID); err != nil {
			log.Fatalf("Failed to seed documents: %v", err)
		}
		if err := seedEvents(ctx, s, user.ID); err != nil {
			log.Fatalf("Failed to seed events: %v", err)
		}
	}

	fmt.Println("Done.")
}

func createDemoUser(ctx context.Context, s *store.Store, n int) (*domain.User, error) {
	hash, err := auth.HashPassword("demo-password")
	if err != nil {
		return nil, err
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        fmt.Sprintf("demo%d@example.com", n+1),
		PasswordHash: hash,
		DisplayName:  demoNames[n%len(demoNames)],
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.Users.Create(ctx, userID, user); err != nil {
		return nil, err
	}

	if err := s.SavePreferences(ctx, domain.DefaultPreferences(userID)); err != nil {
		return nil, err
	}

	return user, nil
}

func seedTasks(ctx context.Context, s *store.Store, ownerID string) error {
	perPriority := make(map[domain.TaskPriority]int)

	for i, title := range taskTitles {
		taskID, err := id.Generate("task")
		if err != nil {
			return err
		}

		priority := priorities[rand.Intn(len(priorities))]
		perPriority[priority]++

		task := &domain.Task{
			Title:          title,
			Status:         statuses[i%len(statuses)],
			Priority:       priority,
			Category:       domain.DefaultTaskCategory,
			OwnerID:        ownerID,
			PriorityNumber: perPriority[priority],
		}
		if i%2 == 0 {
			due := time.Now().AddDate(0, 0, rand.Intn(14)+1)
			task.DueDate = &due
		}
		task.ID = taskID
		task.Derive()
		task.InitTimestamps()

		if err := s.Tasks.Create(ctx, taskID, task); err != nil {
			return err
		}
	}

	fmt.Printf("  Seeded %d tasks\n", len(taskTitles))
	return nil
}

func seedDocuments(ctx context.Context, s *store.Store, ownerID string) error {
	docs := []struct {
		title      string
		content    string
		docType    string
		starred    bool
		isTemplate bool
	}{
		{"Meeting notes", "<p>Attendees, agenda, action items.</p>", "doc", true, false},
		{"Weekly status template", "<p>Wins, blockers, next steps.</p>", "doc", false, true},
		{"Budget overview", "Quarterly figures and projections.", "sheet", false, false},
		{"Launch checklist", "<ul><li>QA pass</li><li>Announce</li></ul>", "doc", false, false},
	}

	for _, d := range docs {
		docID, err := id.Generate("doc")
		if err != nil {
			return err
		}

		doc := &domain.Document{
			Title:      d.title,
			Content:    d.content,
			Type:       d.docType,
			Size:       int64(len(d.content)),
			IsStarred:  d.starred,
			IsTemplate: d.isTemplate,
			SharedWith: []string{},
			OwnerID:    ownerID,
		}
		doc.ID = docID
		doc.InitTimestamps()

		if err := s.Documents.Create(ctx, docID, doc); err != nil {
			return err
		}
	}

	fmt.Printf("  Seeded %d documents\n", len(docs))
	return nil
}

func seedEvents(ctx context.Context, s *store.Store, ownerID string) error {
	count := 5
	for i := 0; i < count; i++ {
		eventID, err := id.Generate("event")
		if err != nil {
			return err
		}

		start := time.Now().AddDate(0, 0, i+1).Truncate(time.Hour)
		event := &domain.CalendarEvent{
			Title:     fmt.Sprintf("Demo meeting %d", i+1),
			StartDate: start,
			EndDate:   start.Add(time.Hour),
			Type:      domain.EventTypeMeeting,
			Color:     "#3788d8",
			OwnerID:   ownerID,
		}
		event.ID = eventID
		event.InitTimestamps()

		if err := s.Events.Create(ctx, eventID, event); err != nil {
			return err
		}
	}

	fmt.Printf("  Seeded %d events\n", count)
	return nil
}
