package category

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type UpsertCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (r UpsertCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(3, 100).Error("name is too short"),
		),
	)
}
