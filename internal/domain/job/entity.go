package job

import "context"

// StatusPublished marks job posts that are open for matching.
const StatusPublished = "PUBLISHED"

// Post is a job opening.
type Post struct {
	ID     int64
	Title  string
	Status string
}

// RequiredSkill is one skill requirement on a job post.
type RequiredSkill struct {
	SkillID       int64
	Name          string
	RequiredLevel int
}

// Repository reads job posts and their skill requirements.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Post, error)
	// ListPublished returns up to limit published job posts.
	ListPublished(ctx context.Context, limit int) ([]Post, error)
	ListRequiredSkills(ctx context.Context, jobPostID int64) ([]RequiredSkill, error)
}
