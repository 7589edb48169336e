package course

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/soko/core"
	"github.com/trezcool/soko/core/cart"
)

// Course is a published catalog entry: the source of the display metadata and
// add-time price a cart item freezes.
type Course struct {
	ID             string    `json:"id" db:"id"`
	Slug           string    `json:"slug" db:"slug"`
	Title          string    `json:"title" db:"title"`
	InstructorName string    `json:"instructor_name" db:"instructor_name"`
	ImageURL       string    `json:"image_url" db:"image_url"`
	ThumbColor     string    `json:"thumb_color" db:"thumb_color"`
	Rating         float64   `json:"rating" db:"rating"`
	RatingCount    int       `json:"rating_count" db:"rating_count"`
	Price          float64   `json:"price" db:"price"`
	Published      bool      `json:"published" db:"published"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// PriceLabel returns the pre-formatted display mirror of Price.
func (c Course) PriceLabel() string {
	return FormatPrice(c.Price)
}

// CartCandidate snapshots the course into a cart item candidate. The snapshot
// reflects the course as it is now; the cart never resyncs it.
func (c Course) CartCandidate() cart.NewItem {
	return cart.NewItem{
		CourseID:       c.ID,
		Slug:           c.Slug,
		Title:          c.Title,
		InstructorName: c.InstructorName,
		ImageURL:       c.ImageURL,
		ThumbColor:     c.ThumbColor,
		Rating:         c.Rating,
		RatingCount:    c.RatingCount,
		Price:          c.Price,
		PriceLabel:     FormatPrice(c.Price),
	}
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Slug           string  `json:"slug" validate:"required"`
	Title          string  `json:"title" validate:"required"`
	InstructorName string  `json:"instructor_name" validate:"required"`
	ImageURL       string  `json:"image_url" validate:"omitempty,url"`
	ThumbColor     string  `json:"thumb_color"`
	Rating         float64 `json:"rating" validate:"gte=0,lte=5"`
	RatingCount    int     `json:"rating_count" validate:"gte=0"`
	Price          float64 `json:"price" validate:"gte=0"`
	Published      bool    `json:"published"`
}

func (nc *NewCourse) Validate(validate *validator.Validate, svc *Service) error {
	nc.Slug = core.CleanString(nc.Slug, true /* lower */)
	nc.Title = core.CleanString(nc.Title)
	nc.InstructorName = core.CleanString(nc.InstructorName)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkSlugUniqueness(nc.Slug)
}

// QueryFilter narrows catalog queries. Fields combine with AND; Search does a
// case-insensitive match on Title or InstructorName.
type QueryFilter struct {
	Search   string   `query:"search"`
	PriceMin *float64 `query:"price_min"`
	PriceMax *float64 `query:"price_max"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}

// FormatPrice renders a price in the catalog's base currency (VND) with
// thousands grouping, e.g. 1299000 -> "₫1,299,000".
func FormatPrice(price float64) string {
	n := strconv.FormatInt(int64(price), 10)
	neg := false
	if len(n) > 0 && n[0] == '-' {
		neg = true
		n = n[1:]
	}
	var out []byte
	for i, d := range []byte(n) {
		if i > 0 && (len(n)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return fmt.Sprintf("-₫%s", out)
	}
	return fmt.Sprintf("₫%s", out)
}
