package dto

import (
	"time"

	"roost/internal/domains/calendar/model"
	"roost/shared/constant"
	gModel "roost/shared/model"
	"roost/shared/timezone"

	"github.com/google/uuid"
)

type OverrideEntry struct {
	Date      string `json:"date"      validate:"required,dateonly"`
	Available bool   `json:"available"`
	Price     *int64 `json:"price"     validate:"omitempty,gt=0"`
	MinStay   *int   `json:"min_stay"  validate:"omitempty,gte=1"`
}

type UpsertCalendarRequest struct {
	Overrides []OverrideEntry `json:"overrides" validate:"required,min=1,max=366,dive"`
}

// ToModels parses the entries into override rows for the given property.
func (r *UpsertCalendarRequest) ToModels(propertyID, user string) ([]model.Override, error) {
	overrides := make([]model.Override, len(r.Overrides))

	for i, entry := range r.Overrides {
		date, err := time.Parse(constant.DateOnlyFormat, entry.Date)
		if err != nil {
			return nil, err
		}

		overrides[i] = model.Override{
			ID:         uuid.NewString(),
			PropertyID: propertyID,
			Date:       date,
			Available:  entry.Available,
			Price:      entry.Price,
			MinStay:    entry.MinStay,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return overrides, nil
}

type OverrideResponse struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Price     *int64 `json:"price,omitempty"`
	MinStay   *int   `json:"min_stay,omitempty"`
}

type GetCalendarResponse struct {
	PropertyID string             `json:"property_id"`
	Overrides  []OverrideResponse `json:"overrides"`
}

func (r *GetCalendarResponse) FromModels(propertyID string, models []model.Override) {
	r.PropertyID = propertyID

	r.Overrides = make([]OverrideResponse, len(models))
	for i, mod := range models {
		r.Overrides[i] = OverrideResponse{
			Date:      mod.Day().Format(constant.DateOnlyFormat),
			Available: mod.Available,
			Price:     mod.Price,
			MinStay:   mod.MinStay,
		}
	}
}
