package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"mingle/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers int
	NumPosts int
	// DryRun builds entities without writing to the database.
	DryRun bool
	// MaxDays bounds how far back generated post timestamps spread.
	MaxDays int
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll truncates every domain table. Postgres only.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, posts, friends, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedSocialMesh creates count users plus a few well-known accounts, then
// wires them together with directed friend edges. Roughly a third of the
// edges get a reciprocal edge back, so both one-way and mutual friendships
// show up in streams.
func (s *Seeder) SeedSocialMesh(count int) ([]*models.User, error) {
	log.Printf("Seeding %d users...", count)

	users := make([]*models.User, 0, count)

	// Well-known accounts for manual testing.
	for _, name := range []string{"alice", "bob", "test"} {
		name := name
		user, err := s.factory.CreateUserWithProfile(func(u *models.User) {
			u.Username = name
		})
		if err != nil {
			// Already present from a previous run; skip quietly.
			continue
		}
		users = append(users, user)
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUserWithProfile(func(u *models.User) {
			// gofakeit usernames collide at scale; suffix with the index
			u.Username = fmt.Sprintf("%s%d", u.Username, i)
		})
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	if err := s.wireFriendEdges(users); err != nil {
		return nil, fmt.Errorf("failed to create friend edges: %w", err)
	}

	log.Printf("Created %d users", len(users))
	return users, nil
}

func (s *Seeder) wireFriendEdges(users []*models.User) error {
	if len(users) < 2 {
		return nil
	}

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, from := range users {
		edges := r.Intn(5)
		for e := 0; e < edges; e++ {
			to := users[r.Intn(len(users))]
			if to.ID == from.ID {
				continue
			}
			if err := s.factory.CreateFriendEdge(from, to); err != nil {
				return err
			}
			if r.Float32() < 0.33 {
				if err := s.factory.CreateFriendEdge(to, from); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// SeedEngagement creates count posts spread across users and sprinkles
// comments onto them.
func (s *Seeder) SeedEngagement(users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attach posts to")
	}

	log.Printf("Seeding %d posts...", count)

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, s.factory.BuildPost(users[r.Intn(len(users))]))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}

	comments := 0
	for _, post := range posts {
		for n := r.Intn(4); n > 0; n-- {
			author := users[r.Intn(len(users))]
			if _, err := s.factory.CreateComment(author, post); err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
	}

	log.Printf("Created %d posts and %d comments", len(posts), comments)
	return posts, nil
}
