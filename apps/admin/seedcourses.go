package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/soko/core/course"
)

// sampleCourses is the demo catalog loaded by `admin seedcourses`.
var sampleCourses = []course.NewCourse{
	{
		Slug:           "go-for-backend-engineers",
		Title:          "Go for Backend Engineers",
		InstructorName: "Neema Kway",
		ImageURL:       "https://img.soko.dev/courses/go-backend.jpg",
		ThumbColor:     "#00ADD8",
		Rating:         4.7,
		RatingCount:    1284,
		Price:          1299000,
		Published:      true,
	},
	{
		Slug:           "postgresql-from-scratch",
		Title:          "PostgreSQL from Scratch",
		InstructorName: "Amani Deng",
		ImageURL:       "https://img.soko.dev/courses/pg-scratch.jpg",
		ThumbColor:     "#336791",
		Rating:         4.5,
		RatingCount:    802,
		Price:          899000,
		Published:      true,
	},
	{
		Slug:           "practical-docker-kubernetes",
		Title:          "Practical Docker & Kubernetes",
		InstructorName: "Neema Kway",
		ImageURL:       "https://img.soko.dev/courses/docker-k8s.jpg",
		ThumbColor:     "#2496ED",
		Rating:         4.8,
		RatingCount:    2310,
		Price:          1499000,
		Published:      true,
	},
	{
		Slug:           "intro-to-distributed-systems",
		Title:          "Intro to Distributed Systems",
		InstructorName: "Josue Ilunga",
		ThumbColor:     "#6E4AFF",
		Rating:         4.2,
		RatingCount:    164,
		Price:          1099000,
		Published:      false, // still in review
	},
}

// seedCourses loads the sample catalog, skipping slugs that already exist so
// the command can be re-run safely.
func (cli *commandLine) seedCourses() error {
	var seeded int
	for _, nc := range sampleCourses {
		if _, err := cli.courseSvc.GetBySlug(nc.Slug); err == nil {
			continue
		} else if errors.Cause(err) != course.ErrNotFound {
			return errors.Wrapf(err, "checking course %q", nc.Slug)
		}

		if _, err := cli.courseSvc.Create(nc); err != nil {
			return errors.Wrapf(err, "creating course %q", nc.Slug)
		}
		seeded++
	}
	fmt.Printf("seeded %d course(s)\n", seeded)
	return nil
}
