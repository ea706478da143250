package response

import (
	"lodging-booking/internal/data/entity"
)

type CouponResponse struct {
	ID          string  `json:"id"`
	PropertyID  string  `json:"property_id"`
	Code        string  `json:"code"`
	Percent     float64 `json:"percent"`
	ValidFrom   string  `json:"valid_from"`
	ValidTo     string  `json:"valid_to"`
	MaxUses     *int    `json:"max_uses,omitempty"`
	CurrentUses int     `json:"current_uses"`
}

func CouponToResponse(c *entity.Coupon) CouponResponse {
	return CouponResponse{
		ID:          c.ID.String(),
		PropertyID:  c.PropertyID.String(),
		Code:        c.Code,
		Percent:     c.Percent,
		ValidFrom:   c.ValidFrom.Format("2006-01-02"),
		ValidTo:     c.ValidTo.Format("2006-01-02"),
		MaxUses:     c.MaxUses,
		CurrentUses: c.CurrentUses,
	}
}
