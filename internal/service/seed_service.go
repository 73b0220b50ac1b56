package service

import (
	"context"
	"fmt"
	"strings"

	"blogCMS/internal/models"
	"blogCMS/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

type SeedCounts struct {
	Users          int `json:"users"`
	Categories     int `json:"categories"`
	Posts          int `json:"posts"`
	PostCategories int `json:"postCategories"`
}

type SeedResult struct {
	Message string      `json:"message"`
	Data    *SeedCounts `json:"data,omitempty"`
}

type SeedService interface {
	Seed(ctx context.Context) (*SeedResult, error)
	SeedFake(ctx context.Context, count int) (int, error)
}

type seedService struct {
	repo  *repository.Repository
	faker *gofakeit.Faker
}

func NewSeedService(repo *repository.Repository) SeedService {
	return &seedService{repo: repo, faker: gofakeit.New(0)}
}

type seedPost struct {
	title, slug, content, excerpt, image string
	categories                           []int
}

var seedCategories = []struct{ name, slug string }{
	{"Technology", "technology"},
	{"Design", "design"},
	{"Business", "business"},
	{"Lifestyle", "lifestyle"},
	{"Development", "development"},
}

// categories index into seedCategories
var seedPosts = []seedPost{
	{
		title:      "The Future of Web Development",
		slug:       "future-of-web-development",
		content:    "Web development is evolving rapidly with new frameworks and technologies emerging constantly. In this article, we explore the trends that will shape the future of web development, including AI integration, edge computing, and new JavaScript frameworks.",
		excerpt:    "Explore the emerging trends that will define web development in the coming years.",
		image:      "/web-development-future.png",
		categories: []int{0, 4},
	},
	{
		title:      "Mastering React Hooks",
		slug:       "mastering-react-hooks",
		content:    "React Hooks have revolutionized the way we write React components. Learn how to use useState, useEffect, useContext, and custom hooks to build powerful and efficient React applications.",
		excerpt:    "A comprehensive guide to understanding and using React Hooks effectively.",
		image:      "/react-hooks-programming.png",
		categories: []int{0, 4},
	},
	{
		title:      "UI Design Principles for Modern Interfaces",
		slug:       "ui-design-principles",
		content:    "Good UI design is about more than just aesthetics. It's about creating intuitive, accessible, and delightful user experiences. Discover the core principles that guide modern interface design.",
		excerpt:    "Learn the fundamental principles of creating beautiful and functional user interfaces.",
		image:      "/ui-design-principles-interface.jpg",
		categories: []int{1, 0},
	},
	{
		title:      "Scaling Your Business: A Strategic Guide",
		slug:       "scaling-business-guide",
		content:    "Scaling a business requires careful planning, the right team, and strategic decision-making. In this guide, we discuss the key strategies and considerations for growing your business sustainably.",
		excerpt:    "Essential strategies for scaling your business while maintaining quality and culture.",
		image:      "/business-scaling-growth-strategy.jpg",
		categories: []int{2},
	},
	{
		title:      "Remote Work: Productivity Tips and Best Practices",
		slug:       "remote-work-productivity",
		content:    "Working remotely has become the new normal. Discover proven strategies and tools to maintain productivity, stay focused, and achieve work-life balance while working from home.",
		excerpt:    "Maximize your productivity and well-being while working remotely.",
		image:      "/remote-work-productivity-home-office.jpg",
		categories: []int{3, 2},
	},
	{
		title:      "TypeScript: Why You Should Use It",
		slug:       "typescript-benefits",
		content:    "TypeScript adds static typing to JavaScript, making your code more robust and maintainable. Learn why TypeScript is becoming the standard for large-scale JavaScript projects.",
		excerpt:    "Discover the benefits of TypeScript and why it's worth adopting in your projects.",
		image:      "/typescript-programming-language.jpg",
		categories: []int{0, 4},
	},
	{
		title:      "Minimalist Design: Less is More",
		slug:       "minimalist-design",
		content:    "Minimalism in design is about removing unnecessary elements and focusing on what truly matters. Explore how minimalist principles can create more impactful and user-friendly designs.",
		excerpt:    "Embrace minimalism to create cleaner, more focused designs.",
		image:      "/minimalist-design-aesthetic.jpg",
		categories: []int{1, 3},
	},
}

// Seed fills an empty database with the demo author, categories and
// published posts. It does nothing when any post already exists.
func (s *seedService) Seed(ctx context.Context) (*SeedResult, error) {
	existing, err := s.repo.Post.Count(ctx)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return &SeedResult{Message: "Database already seeded"}, nil
	}

	user := &models.User{Name: "Admin User", Email: "admin@blog.com"}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}

	categoryIDs := make([]int64, 0, len(seedCategories))
	for _, c := range seedCategories {
		category := &models.Category{Name: c.name, Slug: c.slug}
		if err := s.repo.Category.Create(ctx, category); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", c.slug, err)
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	links := 0
	for _, sp := range seedPosts {
		excerpt, image := sp.excerpt, sp.image
		post := &models.Post{
			Title:         sp.title,
			Slug:          sp.slug,
			Content:       sp.content,
			Excerpt:       &excerpt,
			FeaturedImage: &image,
			AuthorID:      user.ID,
			Status:        models.StatusPublished,
		}

		ids := make([]int64, 0, len(sp.categories))
		for _, i := range sp.categories {
			ids = append(ids, categoryIDs[i])
		}

		if err := s.repo.Post.Create(ctx, post, ids); err != nil {
			return nil, fmt.Errorf("seed post %s: %w", sp.slug, err)
		}
		links += len(ids)
	}

	return &SeedResult{
		Message: "Database seeded successfully",
		Data: &SeedCounts{
			Users:          1,
			Categories:     len(categoryIDs),
			Posts:          len(seedPosts),
			PostCategories: links,
		},
	}, nil
}

// SeedFake adds count generated draft posts written by the first listed
// user and linked to one random existing category each.
func (s *seedService) SeedFake(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	users, err := s.repo.User.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, &models.ValidationError{Reason: "no users to attribute fake posts to; run seed first"}
	}

	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := 0; i < count; i++ {
		title := strings.TrimSuffix(s.faker.Sentence(6), ".")
		excerpt := s.faker.Sentence(12)
		post := &models.Post{
			Title:    title,
			Slug:     slugify(title) + "-" + s.faker.LetterN(6),
			Content:  s.faker.Paragraph(3, 5, 12, "\n\n"),
			Excerpt:  &excerpt,
			AuthorID: users[0].ID,
			Status:   models.StatusDraft,
		}

		var ids []int64
		if len(categories) > 0 {
			ids = []int64{categories[s.faker.IntRange(0, len(categories)-1)].ID}
		}

		if err := s.repo.Post.Create(ctx, post, ids); err != nil {
			return created, fmt.Errorf("fake post %d: %w", i+1, err)
		}
		created++
	}

	return created, nil
}

func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
