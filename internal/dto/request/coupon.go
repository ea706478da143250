package request

type CreateCouponRequest struct {
	Code      string  `json:"code" validate:"required,min=3,max=32"`
	Percent   float64 `json:"percent" validate:"required,gt=0,lte=100"`
	ValidFrom string  `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo   string  `json:"valid_to" validate:"required,datetime=2006-01-02"`
	MaxUses   *int    `json:"max_uses" validate:"omitempty,min=1"`
}
