package review

import (
	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

type SubmitReviewRequest struct {
	HotelID int64  `json:"hotel_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type HotelReviews struct {
	HotelID int64                    `json:"hotel_id"`
	Summary repository.RatingSummary `json:"summary"`
	Reviews []domain.Review          `json:"reviews"`
}
