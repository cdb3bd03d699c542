// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	alertdomain "crowdguard/backend/internal/alert/domain"
	alertrepo "crowdguard/backend/internal/alert/repository"
	"crowdguard/backend/internal/config"
	"crowdguard/backend/internal/db"
	memdomain "crowdguard/backend/internal/membership/domain"
	membershiprepo "crowdguard/backend/internal/membership/repository"
	orgdomain "crowdguard/backend/internal/organization/domain"
	organizationrepo "crowdguard/backend/internal/organization/repository"
	patroldomain "crowdguard/backend/internal/patrol/domain"
	patrolrepo "crowdguard/backend/internal/patrol/repository"
	qldomain "crowdguard/backend/internal/quicklink/domain"
	quicklinkrepo "crowdguard/backend/internal/quicklink/repository"
	"crowdguard/backend/internal/security"
	userdomain "crowdguard/backend/internal/user/domain"
	userrepo "crowdguard/backend/internal/user/repository"
)

const (
	devUserEmail    = "dev@example.com"
	devPassword     = "password123"
	devUserID       = "dev-user-001"
	devUser2ID      = "dev-user-002"
	devOrgID        = "dev-org-001"
	devMembershipID = "dev-membership-001"
	memberEmail     = "member@example.com"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	devName := "Dev User"
	memberName := "Member User"

	if err := users.Create(ctx, &userdomain.User{
		ID:           devUserID,
		Email:        devUserEmail,
		Name:         &devName,
		PasswordHash: &passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("create dev user: %v", err)
	}
	if err := users.Create(ctx, &userdomain.User{
		ID:           devUser2ID,
		Email:        memberEmail,
		Name:         &memberName,
		PasswordHash: &passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("create member user: %v", err)
	}

	orgs := organizationrepo.NewPostgresRepository(conn)
	if err := orgs.CreateWithOwner(ctx, &orgdomain.Org{
		ID:        devOrgID,
		Name:      "Riverside Stadium",
		OwnerID:   devUserID,
		CreatedAt: now,
	}, devMembershipID); err != nil {
		log.Fatalf("create org: %v", err)
	}

	memberships := membershiprepo.NewPostgresRepository(conn)
	if err := memberships.CreateMembership(ctx, &memdomain.Membership{
		ID:       "dev-membership-002",
		OrgID:    devOrgID,
		UserID:   devUser2ID,
		Role:     memdomain.RoleMember,
		JoinedAt: now,
	}); err != nil {
		log.Fatalf("create member membership: %v", err)
	}

	alerts := alertrepo.NewPostgresRepository(conn)
	sample := []struct {
		severity, message string
		age               time.Duration
	}{
		{"low", "Routine gate count uploaded", 3 * time.Hour},
		{"medium", "Queue building at north entrance", 90 * time.Minute},
		{"high", "Density above threshold in block C", 20 * time.Minute},
	}
	for i, s := range sample {
		if err := alerts.Create(ctx, &alertdomain.Alert{
			ID:        fmt.Sprintf("dev-alert-%03d", i+1),
			OrgID:     devOrgID,
			Severity:  s.severity,
			Message:   s.message,
			Timestamp: now.Add(-s.age),
		}); err != nil {
			log.Fatalf("create alert: %v", err)
		}
	}

	patrols := patrolrepo.NewPostgresRepository(conn)
	eveningSweep := "Evening perimeter sweep"
	if err := patrols.Create(ctx, &patroldomain.Patrol{
		ID:          "dev-patrol-001",
		OrgID:       devOrgID,
		Name:        &eveningSweep,
		ScheduledAt: now.Add(4 * time.Hour),
	}); err != nil {
		log.Fatalf("create patrol: %v", err)
	}
	if err := patrols.Create(ctx, &patroldomain.Patrol{
		ID:          "dev-patrol-002",
		OrgID:       devOrgID,
		ScheduledAt: now.Add(26 * time.Hour),
	}); err != nil {
		log.Fatalf("create patrol: %v", err)
	}

	quickLinks := quicklinkrepo.NewPostgresRepository(conn)
	createdBy := devUserID
	if err := quickLinks.Create(ctx, &qldomain.QuickLink{
		ID:        "dev-link-001",
		OrgID:     devOrgID,
		Label:     "Venue CCTV",
		URL:       "https://cctv.example.com",
		CreatedBy: &createdBy,
		CreatedAt: now,
	}); err != nil {
		log.Fatalf("create quick link: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev login: %s / %s\n", devUserEmail, devPassword)
	fmt.Printf("Member login: %s / %s\n", memberEmail, devPassword)
}
