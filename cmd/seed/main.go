// Command seed populates a development database with a demo library,
// a small team, collections and a spread of issues, then prints an
// admin token for exercising the metrics API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfdesk/metrics-backend/internal/auth"
	"github.com/shelfdesk/metrics-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		slog.Error("refusing to seed a production database")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := seed(ctx, pool, cfg); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) error {
	now := time.Now().UTC()

	// Library
	libraryID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO libraries (id, name) VALUES ($1, $2)`,
		libraryID, "Riverbend Public Library")
	if err != nil {
		return fmt.Errorf("insert library: %w", err)
	}

	// Users. Everyone shares one development password.
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("Dev-password1!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	type seedUser struct {
		email     string
		first     string
		last      string
		role      string
		lastLogin time.Time
	}

	users := []seedUser{
		{"admin@riverbend.example", "Nadia", "Okafor", "admin", now.Add(-1 * time.Hour)},
		{"manager@riverbend.example", "Tomas", "Lindqvist", "manager", now.Add(-2 * time.Hour)},
		{"staff1@riverbend.example", "Ada", "Park", "staff", now.Add(-30 * time.Minute)},
		{"staff2@riverbend.example", "Jules", "Moreau", "staff", now.Add(-26 * time.Hour)},
		{"patron@riverbend.example", "Sam", "Whitfield", "patron", now.Add(-72 * time.Hour)},
	}

	userIDs := make(map[string]uuid.UUID, len(users))
	for _, u := range users {
		id := uuid.New()
		userIDs[u.email] = id
		_, err := pool.Exec(ctx,
			`INSERT INTO users (id, library_id, email, password_hash, first_name, last_name, role, last_login)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, libraryID, u.email, string(passwordHash), u.first, u.last, u.role, u.lastLogin)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.email, err)
		}
	}

	// Collections
	collections := []struct {
		name   string
		colour string
	}{
		{"Periodicals", "#2563eb"},
		{"Local History", "#d97706"},
		{"Media Lab", "#059669"},
	}

	collectionIDs := make([]uuid.UUID, 0, len(collections))
	for _, c := range collections {
		id := uuid.New()
		collectionIDs = append(collectionIDs, id)
		_, err := pool.Exec(ctx,
			`INSERT INTO collections (id, library_id, name, colour) VALUES ($1, $2, $3, $4)`,
			id, libraryID, c.name, c.colour)
		if err != nil {
			return fmt.Errorf("insert collection %s: %w", c.name, err)
		}
	}

	// Issues spread over the last six weeks so every grouping mode has data.
	ada := userIDs["staff1@riverbend.example"]
	jules := userIDs["staff2@riverbend.example"]
	patron := userIDs["patron@riverbend.example"]

	type seedIssue struct {
		title      string
		status     string
		priority   string
		collection uuid.UUID
		assignedTo *uuid.UUID
		createdAgo time.Duration
		resolveIn  time.Duration // 0 means unresolved
		dueAgo     time.Duration // 0 means no due date
	}

	issues := []seedIssue{
		{"Microfilm reader jams on rewind", "resolved", "high", collectionIDs[0], &ada, 40 * 24 * time.Hour, 18 * time.Hour, 0},
		{"Bound periodicals shelf sagging", "closed", "medium", collectionIDs[0], &ada, 33 * 24 * time.Hour, 4 * 24 * time.Hour, 0},
		{"Archive scanner colour drift", "resolved", "medium", collectionIDs[1], &jules, 21 * 24 * time.Hour, 30 * time.Hour, 0},
		{"Map cabinet drawer off its rails", "in_progress", "low", collectionIDs[1], &jules, 12 * 24 * time.Hour, 0, 0},
		{"3D printer extruder clogged", "open", "urgent", collectionIDs[2], &ada, 3 * 24 * time.Hour, 0, 24 * time.Hour},
		{"VR headset strap torn", "open", "low", collectionIDs[2], nil, 2 * 24 * time.Hour, 0, 0},
		{"Audio booth monitor flickering", "in_progress", "high", collectionIDs[2], &ada, 5 * 24 * time.Hour, 0, 0},
		{"Newspaper rack wheel missing", "open", "medium", collectionIDs[0], &jules, 8 * time.Hour, 0, 0},
	}

	issueIDs := make([]uuid.UUID, 0, len(issues))
	for _, is := range issues {
		id := uuid.New()
		issueIDs = append(issueIDs, id)

		createdAt := now.Add(-is.createdAgo)
		var resolvedAt *time.Time
		if is.resolveIn > 0 {
			t := createdAt.Add(is.resolveIn)
			resolvedAt = &t
		}
		var dueDate *time.Time
		if is.dueAgo > 0 {
			t := now.Add(-is.dueAgo)
			dueDate = &t
		}

		_, err := pool.Exec(ctx,
			`INSERT INTO issues (id, library_id, collection_id, title, status, priority, assigned_to, reported_by, due_date, created_at, updated_at, resolved_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $11)`,
			id, libraryID, is.collection, is.title, is.status, is.priority,
			is.assignedTo, patron, dueDate, createdAt, resolvedAt)
		if err != nil {
			return fmt.Errorf("insert issue %q: %w", is.title, err)
		}
	}

	// A few comments for activity metrics
	comments := []struct {
		issue  uuid.UUID
		author uuid.UUID
		body   string
		ago    time.Duration
	}{
		{issueIDs[4], ada, "Ordered a replacement nozzle, ETA Thursday.", 20 * time.Hour},
		{issueIDs[6], ada, "Swapped the HDMI cable, still flickering under load.", 2 * 24 * time.Hour},
		{issueIDs[3], jules, "Rails are bent, sourcing a spare drawer slide.", 4 * 24 * time.Hour},
	}

	for _, c := range comments {
		_, err := pool.Exec(ctx,
			`INSERT INTO issue_comments (id, issue_id, user_id, body, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), c.issue, c.author, c.body, now.Add(-c.ago))
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
	}

	// Print an admin token so the dashboard can talk to the API immediately.
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	token, err := tokenManager.GenerateToken(userIDs["admin@riverbend.example"], libraryID, "admin")
	if err != nil {
		return fmt.Errorf("generate admin token: %w", err)
	}

	fmt.Println("Seeded demo library:", libraryID)
	fmt.Println("Admin login: admin@riverbend.example / Dev-password1!")
	fmt.Println("Admin token:")
	fmt.Println(token)

	return nil
}
