package response

import (
	"lodging-booking/internal/data/entity"
)

type PropertyResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TotalRooms  int     `json:"total_rooms"`
	Approved    bool    `json:"approved"`
	Suspended   bool    `json:"suspended"`
	Capacity    int     `json:"capacity"`
	BasePrice   float64 `json:"base_price"`
	CleaningFee float64 `json:"cleaning_fee"`
	ServiceFee  float64 `json:"service_fee"`
}

func PropertyToResponse(p *entity.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		TotalRooms:  p.TotalRooms,
		Approved:    p.Approved,
		Suspended:   p.Suspended,
		Capacity:    p.Capacity,
		BasePrice:   p.BasePrice,
		CleaningFee: p.CleaningFee,
		ServiceFee:  p.ServiceFee,
	}
}
