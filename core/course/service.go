package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/soko/core"
)

var (
	// errors
	ErrNotFound   = errors.New("course not found")
	ErrSlugExists = errors.New("a course with this slug already exists")
)

type (
	Repository interface {
		CheckSlugUniqueness(slug string) error
		CreateCourse(course Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)
		GetCourseBySlug(slug string) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		FilterCourses(filter QueryFilter, orderings ...core.DBOrdering) ([]Course, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkSlugUniqueness(slug string) error {
	if err := svc.repo.CheckSlugUniqueness(slug); err != nil {
		if err == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		ID:             uuid.New().String(),
		Slug:           nc.Slug,
		Title:          nc.Title,
		InstructorName: nc.InstructorName,
		ImageURL:       nc.ImageURL,
		ThumbColor:     nc.ThumbColor,
		Rating:         nc.Rating,
		RatingCount:    nc.RatingCount,
		Price:          nc.Price,
		Published:      nc.Published,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) GetBySlug(slug string) (Course, error) {
	return svc.repo.GetCourseBySlug(core.CleanString(slug, true /* lower */))
}

func (svc *Service) Filter(filter QueryFilter, orderings ...core.DBOrdering) ([]Course, error) {
	return svc.repo.FilterCourses(filter, orderings...)
}
