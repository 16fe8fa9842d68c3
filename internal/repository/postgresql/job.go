package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/pkg/database"
)

type jobRepository struct {
	db *database.DB
}

func NewJobRepository(db *database.DB) job.Repository {
	return &jobRepository{db: db}
}

// GetByID implements job.Repository.
func (r *jobRepository) GetByID(ctx context.Context, id int64) (job.Post, error) {
	query := `
		SELECT id, title, status
		FROM job_posts
		WHERE id = $1 AND deleted_at IS NULL
	`

	var p job.Post
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Title, &p.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Post{}, job.ErrJobPostNotFound
		}
		return job.Post{}, fmt.Errorf("failed to get job post by id: %w", err)
	}

	return p, nil
}

// ListPublished implements job.Repository.
func (r *jobRepository) ListPublished(ctx context.Context, limit int) ([]job.Post, error) {
	query := `
		SELECT id, title, status
		FROM job_posts
		WHERE status = 'PUBLISHED' AND deleted_at IS NULL
		ORDER BY id
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published job posts: %w", err)
	}
	defer rows.Close()

	var posts []job.Post
	for rows.Next() {
		var p job.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan job post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job posts: %w", err)
	}

	return posts, nil
}

// ListRequiredSkills implements job.Repository.
func (r *jobRepository) ListRequiredSkills(ctx context.Context, jobPostID int64) ([]job.RequiredSkill, error) {
	query := `
		SELECT jps.skill_id, s.name, jps.required_level
		FROM job_post_skills jps
		JOIN skills s ON jps.skill_id = s.id
		WHERE jps.job_post_id = $1
	`

	rows, err := r.db.Query(ctx, query, jobPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job post skills: %w", err)
	}
	defer rows.Close()

	var skills []job.RequiredSkill
	for rows.Next() {
		var s job.RequiredSkill
		if err := rows.Scan(&s.SkillID, &s.Name, &s.RequiredLevel); err != nil {
			return nil, fmt.Errorf("failed to scan job post skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job post skills: %w", err)
	}

	return skills, nil
}
