package dto

import "github.com/noah-isme/course-scheduler-api/internal/models"

// CoreCodeSummary is one general-education code and its description.
type CoreCodeSummary struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// InstructorRatingsResponse pairs the requested instructor names with the ratings that matched.
type InstructorRatingsResponse struct {
	Names   []string                  `json:"names"`
	Ratings []models.InstructorRating `json:"ratings"`
}
