package handler

import (
	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

// --- Request → Service input ---

func toCreateAnimalInput(req createAnimalRequest, userID string) ports.CreateAnimalInput {
	return ports.CreateAnimalInput{
		UserID:    userID,
		Species:   req.Species,
		Breed:     req.Breed,
		AgeMonths: req.AgeMonths,
		WeightKg:  req.WeightKg,
		Price:     req.Price,
		ImageURL:  req.ImageURL,
	}
}

// --- Domain → HTTP response ---

func toAnimalResponse(a *domain.Animal) animalResponse {
	return animalResponse{
		ID:        a.ID,
		FarmerID:  a.FarmerID,
		Species:   a.Species,
		Breed:     a.Breed,
		AgeMonths: a.AgeMonths,
		WeightKg:  a.WeightKg,
		Price:     a.Price,
		Status:    string(a.Status),
		ImageURL:  a.ImageURL,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
}

func toListAnimalsResponse(r *ports.ListAnimalsResult) listAnimalsResponse {
	items := make([]animalResponse, len(r.Items))
	for i, a := range r.Items {
		items[i] = toAnimalResponse(a)
	}
	return listAnimalsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
