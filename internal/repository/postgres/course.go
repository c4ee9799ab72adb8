package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/repository"
)

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (
			id, code, title, discipline, validity_months, passing_score,
			active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	course.CreatedAt = time.Now()
	course.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		course.ID,
		course.Code,
		course.Title,
		course.Discipline,
		course.ValidityMonths,
		course.PassingScore,
		course.Active,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *courseRepository) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	query := `SELECT * FROM courses WHERE id = $1 AND deleted_at IS NULL`
	var course model.Course
	err := r.db.GetContext(ctx, &course, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

func (r *courseRepository) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	query := `SELECT * FROM courses WHERE code = $1 AND deleted_at IS NULL`
	var course model.Course
	err := r.db.GetContext(ctx, &course, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by code: %w", err)
	}
	return &course, nil
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	query := `
		UPDATE courses
		SET title = $1, discipline = $2, validity_months = $3,
			passing_score = $4, active = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	course.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		course.Title,
		course.Discipline,
		course.ValidityMonths,
		course.PassingScore,
		course.Active,
		course.UpdatedAt,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

func (r *courseRepository) List(ctx context.Context, filters *model.CourseFilters) ([]*model.Course, error) {
	query := `SELECT * FROM courses WHERE deleted_at IS NULL`
	args := []interface{}{}
	idx := 1

	if filters != nil {
		if filters.Discipline != "" {
			query += fmt.Sprintf(" AND discipline = $%d", idx)
			args = append(args, filters.Discipline)
			idx++
		}
		if filters.Active != nil {
			query += fmt.Sprintf(" AND active = $%d", idx)
			args = append(args, *filters.Active)
			idx++
		}
	}

	query += " ORDER BY code ASC"

	var courses []*model.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (r *courseRepository) CreateEnrollment(ctx context.Context, enrollment *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, course_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	enrollment.CreatedAt = time.Now()
	enrollment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.CourseID,
		enrollment.UserID,
		enrollment.Status,
		enrollment.CreatedAt,
		enrollment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *courseRepository) GetEnrollment(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	query := `SELECT * FROM enrollments WHERE id = $1`
	var enrollment model.Enrollment
	err := r.db.GetContext(ctx, &enrollment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("enrollment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &enrollment, nil
}

func (r *courseRepository) GetActiveEnrollment(ctx context.Context, courseID, userID uuid.UUID) (*model.Enrollment, error) {
	query := `
		SELECT * FROM enrollments
		WHERE course_id = $1 AND user_id = $2 AND status = $3
	`
	var enrollment model.Enrollment
	err := r.db.GetContext(ctx, &enrollment, query, courseID, userID, model.EnrollmentStatusEnrolled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active enrollment: %w", err)
	}
	return &enrollment, nil
}

func (r *courseRepository) UpdateEnrollment(ctx context.Context, enrollment *model.Enrollment) error {
	query := `
		UPDATE enrollments
		SET status = $1, score = $2, completed_at = $3, updated_at = $4
		WHERE id = $5
	`
	enrollment.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		enrollment.Status,
		enrollment.Score,
		enrollment.CompletedAt,
		enrollment.UpdatedAt,
		enrollment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	return nil
}

func (r *courseRepository) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*model.Enrollment, error) {
	query := `SELECT * FROM enrollments WHERE user_id = $1 ORDER BY created_at DESC`
	var enrollments []*model.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}
