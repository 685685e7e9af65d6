// Package seed provides helpers to create demo blog content for development
// and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumPosts       int
	MaxCommentsPer int
	Clean          bool
}

var tagPool = []string{
	"golang", "webdev", "databases", "tutorial", "opinion", "design",
	"performance", "testing", "devops", "career", "tooling", "security",
}

// Run populates the database with demo posts and nested comment threads.
func Run(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d demo posts...", opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.Clean {
		if err := db.Exec("DELETE FROM comments").Error; err != nil {
			return fmt.Errorf("failed to clear comments: %w", err)
		}
		if err := db.Exec("DELETE FROM posts").Error; err != nil {
			return fmt.Errorf("failed to clear posts: %w", err)
		}
	}

	categories := models.AssignableCategories()
	created := 0

	for i := 0; i < opts.NumPosts; i++ {
		post := buildPost(r, categories)
		if err := db.Create(post).Error; err != nil {
			// Slug collisions between random titles are possible; skip and move on.
			log.Printf("skipping post %q: %v", post.Slug, err)
			continue
		}
		created++

		if err := seedComments(db, r, post, opts.MaxCommentsPer); err != nil {
			return err
		}
	}

	log.Printf("✓ %d posts created", created)
	return nil
}

func buildPost(r *rand.Rand, categories []string) *models.Post {
	title := strings.TrimSuffix(gofakeit.Sentence(r.Intn(5)+4), ".")

	paragraphs := make([]string, 0, 4)
	paragraphs = append(paragraphs, "## "+gofakeit.Sentence(3))
	for p := 0; p < r.Intn(3)+2; p++ {
		paragraphs = append(paragraphs, gofakeit.Paragraph(1, 4, 10, " "))
	}

	post := &models.Post{
		Slug:       service.Slugify(title),
		Title:      title,
		Content:    strings.Join(paragraphs, "\n\n"),
		Excerpt:    gofakeit.Sentence(12),
		Author:     gofakeit.Name(),
		Category:   categories[r.Intn(len(categories))],
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		// realistic publication spread over the past year
		PublishedAt: time.Now().UTC().Add(-time.Duration(r.Intn(365*24)) * time.Hour),
		Views:       int64(r.Intn(5000)),
	}
	post.UpdatedAt = post.PublishedAt

	tags := make([]string, 0, 3)
	for _, idx := range r.Perm(len(tagPool))[:r.Intn(3)+1] {
		tags = append(tags, tagPool[idx])
	}
	post.SetTagList(tags)

	if r.Intn(4) == 0 {
		post.SetMediaList([]models.EmbeddedMedia{{
			URL:      "https://www.youtube.com/watch?v=" + gofakeit.LetterN(11),
			Type:     "youtube",
			Position: "full-width",
			Caption:  gofakeit.Sentence(5),
		}})
	}

	return post
}

// seedComments creates a small thread per post: a few roots, then replies
// attached to already-created comments so every parent predates its child.
func seedComments(db *gorm.DB, r *rand.Rand, post *models.Post, maxPer int) error {
	if maxPer <= 0 {
		return nil
	}

	n := r.Intn(maxPer + 1)
	existing := make([]*models.Comment, 0, n)
	at := post.PublishedAt

	for i := 0; i < n; i++ {
		at = at.Add(time.Duration(r.Intn(120)+1) * time.Minute)

		comment := &models.Comment{
			PostSlug:  post.Slug,
			Username:  repository.RandomUsername(),
			Content:   gofakeit.Sentence(r.Intn(15) + 3),
			Likes:     int64(r.Intn(25)),
			CreatedAt: at,
		}
		// Half the comments past the first reply to an earlier one.
		if len(existing) > 0 && r.Intn(2) == 0 {
			parent := existing[r.Intn(len(existing))]
			comment.ParentID = &parent.ID
		}

		if err := db.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to seed comment: %w", err)
		}
		existing = append(existing, comment)
	}

	return nil
}
