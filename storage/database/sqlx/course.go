package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/soko/core"
	"github.com/trezcool/soko/core/course"
)

// orderable columns for catalog queries; anything else is silently dropped.
var courseOrderFields = map[string]bool{
	"title":      true,
	"price":      true,
	"rating":     true,
	"created_at": true,
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CheckSlugUniqueness(slug string) error {
	var exists bool
	if err := repo.db.Get(&exists, "SELECT EXISTS(SELECT 1 FROM course WHERE slug = $1)", slug); err != nil {
		return errors.Wrap(err, "checking slug uniqueness")
	}
	if exists {
		return course.ErrSlugExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO course (id, slug, title, instructor_name, image_url, thumb_color, rating, rating_count, price, published, created_at, updated_at)
		VALUES (:id, :slug, :title, :instructor_name, :image_url, :thumb_color, :rating, :rating_count, :price, :published, :created_at, :updated_at)`,
		crs,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryAllCourses() ([]course.Course, error) {
	var courses []course.Course
	if err := repo.db.Select(&courses, "SELECT * FROM course ORDER BY created_at DESC"); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo courseRepository) GetCourseByID(id string) (course.Course, error) {
	var crs course.Course
	if err := repo.db.Get(&crs, "SELECT * FROM course WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course by id")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseBySlug(slug string) (course.Course, error) {
	var crs course.Course
	if err := repo.db.Get(&crs, "SELECT * FROM course WHERE slug = $1", slug); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course by slug")
	}
	return crs, nil
}

func (repo courseRepository) FilterCourses(filter course.QueryFilter, orderings ...core.DBOrdering) ([]course.Course, error) {
	where := []string{"published = TRUE"}
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(instructor_name) LIKE %s)", p, p))
	}
	if filter.PriceMin != nil {
		where = append(where, fmt.Sprintf("price >= %s", arg(*filter.PriceMin)))
	}
	if filter.PriceMax != nil {
		where = append(where, fmt.Sprintf("price <= %s", arg(*filter.PriceMax)))
	}

	orderBy := "created_at DESC"
	var terms []string
	for _, ord := range orderings {
		if courseOrderFields[ord.Field] {
			terms = append(terms, ord.String())
		}
	}
	if len(terms) > 0 {
		orderBy = strings.Join(terms, ", ")
	}

	query := fmt.Sprintf(
		"SELECT * FROM course WHERE %s ORDER BY %s",
		strings.Join(where, " AND "), orderBy,
	)

	var courses []course.Course
	if err := repo.db.Select(&courses, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering courses")
	}
	return courses, nil
}
