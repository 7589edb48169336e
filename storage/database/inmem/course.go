package inmemdb

import (
	"sort"
	"strings"

	"github.com/trezcool/soko/core"
	"github.com/trezcool/soko/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, crs := range repo.db.table {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses
}

func (repo *courseRepository) CheckSlugUniqueness(slug string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.db.table {
		if crs.Slug == slug {
			return course.ErrSlugExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) GetCourseBySlug(slug string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.db.table {
		if crs.Slug == slug {
			return *crs, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(filter course.QueryFilter, orderings ...core.DBOrdering) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0)
	for _, crs := range repo.query() {
		if !crs.Published {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(crs.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(crs.InstructorName), filter.Search) {
			continue
		}
		if filter.PriceMin != nil && crs.Price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && crs.Price > *filter.PriceMax {
			continue
		}
		courses = append(courses, crs)
	}

	for i := len(orderings) - 1; i >= 0; i-- {
		ord := orderings[i]
		sort.SliceStable(courses, func(a, b int) bool {
			less := courseLess(courses[a], courses[b], ord.Field)
			if ord.Ascending {
				return less
			}
			return courseLess(courses[b], courses[a], ord.Field)
		})
	}
	return courses, nil
}

func courseLess(a, b course.Course, field string) bool {
	switch field {
	case "title":
		return a.Title < b.Title
	case "price":
		return a.Price < b.Price
	case "rating":
		return a.Rating < b.Rating
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return false
}
