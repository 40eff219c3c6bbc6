// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"blogx/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categories = []string{
	"technology", "travel", "food", "science", "music",
	"books", "sports", "finance", "art", "gaming",
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes users, posts and comments.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "Password123!seed".
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Password123!seed"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user with a
// realistic created_at spread over the past 90 days.
func (s *Seeder) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(1, 3, 5, "\n"),
		Category: categories[s.rand.Intn(len(categories))],
		UserID:   user.ID,
	}

	daysBack := s.rand.Intn(90)
	hoursBack := s.rand.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a sample comment, optionally as a
// reply to parent.
func (s *Seeder) CreateComment(user *models.User, post *models.Post, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(12),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Run populates the database with users, posts and threaded comments.
func (s *Seeder) Run(numUsers, numPosts int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.rand.Intn(len(users))]
		post, err := s.CreatePost(author)
		if err != nil {
			return fmt.Errorf("seeding post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	log.Printf("Seeded %d posts", len(posts))

	// Roughly three top-level comments per post, each with a chance of a
	// short reply chain.
	commentCount := 0
	for _, post := range posts {
		for i := 0; i < s.rand.Intn(5); i++ {
			author := users[s.rand.Intn(len(users))]
			root, err := s.CreateComment(author, post, nil)
			if err != nil {
				return err
			}
			commentCount++

			parent := root
			for depth := 0; depth < s.rand.Intn(3); depth++ {
				replier := users[s.rand.Intn(len(users))]
				reply, err := s.CreateComment(replier, post, parent)
				if err != nil {
					return err
				}
				commentCount++
				parent = reply
			}
		}
	}
	log.Printf("Seeded %d comments", commentCount)

	return nil
}
