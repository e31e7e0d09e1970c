package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Report is a single user-submitted civic-issue entry.
// The client only creates or deletes reports, never edits them.
type Report struct {
	ID        string       `json:"_id"`
	Title     string       `json:"title"`
	Caption   string       `json:"caption"`
	Image     string       `json:"image"` // URL or data URI
	Rating    Rating       `json:"rating"`
	Place     string       `json:"place"`
	Lat       float64      `json:"lat"`
	Lng       float64      `json:"lng"`
	CreatedAt time.Time    `json:"createdAt"`
	User      *UserProfile `json:"user,omitempty"`
}

// Rating is a 1-5 star value. The API sends it as a number but accepts
// it as a string on submission, so both forms decode. Fractions are rejected.
type Rating int

func (r *Rating) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid rating %q: must be a whole number", s)
	}
	*r = Rating(n)
	return nil
}

// Valid reports whether the rating is an integer between 1 and 5.
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

// Stars renders the rating as five filled/empty stars.
func (r Rating) Stars() string {
	var b strings.Builder
	for i := MinRating; i <= MaxRating; i++ {
		if Rating(i) <= r {
			b.WriteString("★")
		} else {
			b.WriteString("☆")
		}
	}
	return b.String()
}

// NewReport is what a caller fills in to submit a report.
// Either ImageBase64 or ImagePath must be set; ImagePath also drives MIME inference.
type NewReport struct {
	Title       string
	Caption     string
	Place       string
	Rating      int
	ImagePath   string
	ImageBase64 string
	Lat         float64
	Lng         float64
}

// CreateReportRequest is the request body for POST /report/.
type CreateReportRequest struct {
	Title   string  `json:"title"`
	Caption string  `json:"caption"`
	Place   string  `json:"place"`
	Rating  string  `json:"rating"`
	Image   string  `json:"image"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// MarshalRating formats a rating the way the API expects it on submission.
func MarshalRating(r int) string {
	return strconv.Itoa(r)
}

// report list helpers

// ReportIDs returns the ids of reports in order.
func ReportIDs(reports []Report) []string {
	ids := make([]string, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
	}
	return ids
}

// MarshalReports is used by the archive to snapshot a list.
func MarshalReports(reports []Report) ([]byte, error) {
	return json.MarshalIndent(reports, "", "  ")
}

// Report constants
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

// Report errors
var (
	ErrMissingTitle    = errors.New("title is required")
	ErrMissingCaption  = errors.New("caption is required")
	ErrMissingImage    = errors.New("image is required")
	ErrInvalidRating   = errors.New("rating must be an integer from 1 to 5")
	ErrMissingReportID = errors.New("report id is required")
	ErrReportNotFound  = errors.New("report not found")
	ErrNotReportOwner  = errors.New("report belongs to another user")
)
