package dto

import (
	"roost/internal/domains/property/model"
	"roost/shared"
	gDto "roost/shared/dto"
	gModel "roost/shared/model"
	"roost/shared/timezone"

	"github.com/google/uuid"
)

type CreatePropertyRequest struct {
	Name              string  `json:"name"                validate:"required,max=200"`
	Location          string  `json:"location"            validate:"omitempty,max=200"`
	BaseRate          int64   `json:"base_rate"           validate:"required,gt=0"`
	WeekendPremiumPct float64 `json:"weekend_premium_pct" validate:"omitempty,gte=0,lte=100"`
	CleaningFee       int64   `json:"cleaning_fee"        validate:"omitempty,gte=0"`
	SecurityDeposit   int64   `json:"security_deposit"    validate:"omitempty,gte=0"`
	ServiceFeeRate    float64 `json:"service_fee_rate"    validate:"omitempty,gte=0,lte=1"`
	MinStay           int     `json:"min_stay"            validate:"omitempty,gte=1"`
	MaxStay           int     `json:"max_stay"            validate:"omitempty,gte=1"`
	MaxGuests         int     `json:"max_guests"          validate:"required,gte=1"`
}

func (c *CreatePropertyRequest) ToModel(hostID string) model.Property {
	minStay := c.MinStay
	if minStay == 0 {
		minStay = 1
	}

	return model.Property{
		ID:                uuid.NewString(),
		HostID:            hostID,
		Name:              c.Name,
		Location:          c.Location,
		BaseRate:          c.BaseRate,
		WeekendPremiumPct: c.WeekendPremiumPct,
		CleaningFee:       c.CleaningFee,
		SecurityDeposit:   c.SecurityDeposit,
		ServiceFeeRate:    c.ServiceFeeRate,
		MinStay:           minStay,
		MaxStay:           c.MaxStay,
		MaxGuests:         c.MaxGuests,
		Active:            true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  hostID,
			ModifiedBy: hostID,
		},
	}
}

type UpdatePropertyRequest struct {
	Name              string  `db:"name"                json:"name"                validate:"omitempty,max=200"`
	Location          string  `db:"location"            json:"location"            validate:"omitempty,max=200"`
	BaseRate          int64   `db:"base_rate"           json:"base_rate"           validate:"omitempty,gt=0"`
	WeekendPremiumPct float64 `db:"weekend_premium_pct" json:"weekend_premium_pct" validate:"omitempty,gte=0,lte=100"`
	CleaningFee       int64   `db:"cleaning_fee"        json:"cleaning_fee"        validate:"omitempty,gte=0"`
	SecurityDeposit   int64   `db:"security_deposit"    json:"security_deposit"    validate:"omitempty,gte=0"`
	ServiceFeeRate    float64 `db:"service_fee_rate"    json:"service_fee_rate"    validate:"omitempty,gte=0,lte=1"`
	MinStay           int     `db:"min_stay"            json:"min_stay"            validate:"omitempty,gte=1"`
	MaxStay           int     `db:"max_stay"            json:"max_stay"            validate:"omitempty,gte=1"`
	MaxGuests         int     `db:"max_guests"          json:"max_guests"          validate:"omitempty,gte=1"`
}

type PropertyResponse struct {
	ID                string  `json:"id"`
	HostID            string  `json:"host_id"`
	Name              string  `json:"name"`
	Location          string  `json:"location"`
	BaseRate          int64   `json:"base_rate"`
	WeekendPremiumPct float64 `json:"weekend_premium_pct"`
	CleaningFee       int64   `json:"cleaning_fee"`
	SecurityDeposit   int64   `json:"security_deposit"`
	ServiceFeeRate    float64 `json:"service_fee_rate"`
	MinStay           int     `json:"min_stay"`
	MaxStay           int     `json:"max_stay"`
	MaxGuests         int     `json:"max_guests"`
	Active            bool    `json:"active"`
	gDto.Metadata
}

func (r *PropertyResponse) FromModel(mod model.Property) {
	r.ID = mod.ID
	r.HostID = mod.HostID
	r.Name = mod.Name
	r.Location = mod.Location
	r.BaseRate = mod.BaseRate
	r.WeekendPremiumPct = mod.WeekendPremiumPct
	r.CleaningFee = mod.CleaningFee
	r.SecurityDeposit = mod.SecurityDeposit
	r.ServiceFeeRate = mod.ServiceFeeRate
	r.MinStay = mod.MinStay
	r.MaxStay = mod.MaxStay
	r.MaxGuests = mod.MaxGuests
	r.Active = mod.Active
	r.Metadata.FromModel(mod.Metadata)
}

type GetPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetPropertiesResponse) FromModels(models []model.Property, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Properties = make([]PropertyResponse, len(models))
	for i, mod := range models {
		r.Properties[i].FromModel(mod)
	}
}
