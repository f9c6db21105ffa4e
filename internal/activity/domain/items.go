// Package domain defines the wire records for activity outcome items and
// their conversion into store items.
package domain

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/classbridge/classbridge/internal/errors"
	"github.com/classbridge/classbridge/internal/store"
)

var validate = validator.New()

// BinaryItemRecord is the wire shape of a boolean outcome item. Type selects
// the value presentation (0 true/false, 1 pass/fail, 2 yes/no).
type BinaryItemRecord struct {
	Identifier string `json:"identifier" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Type       *int   `json:"type" validate:"required"`
	IsCorrect  *bool  `json:"isCorrect" validate:"required"`
	Primary    bool   `json:"isPrimaryActivityItem"`
}

// Item converts the record into a store item. The type ordinal is checked
// before any store interaction.
func (r BinaryItemRecord) Item() (store.Item, error) {
	if err := validate.Struct(r); err != nil {
		return store.Item{}, apperrors.Wrap(apperrors.CodeValidationFailure, "invalid binary item", err)
	}
	if *r.Type < int(store.BinaryTrueFalse) || *r.Type > int(store.BinaryYesNo) {
		return store.Item{}, apperrors.New(apperrors.CodeValidationFailure, "binary item type must be 0, 1, or 2")
	}
	return store.NewBinaryItem(r.Identifier, r.Title, store.BinaryValueType(*r.Type), *r.IsCorrect), nil
}

// ScoreItemRecord is the wire shape of a score outcome item.
type ScoreItemRecord struct {
	Identifier string   `json:"identifier" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Score      *float64 `json:"score" validate:"required"`
	MaxScore   *float64 `json:"maxScore" validate:"required"`
	Primary    bool     `json:"isPrimaryActivityItem"`
}

// Item converts the record into a store item.
func (r ScoreItemRecord) Item() (store.Item, error) {
	if err := validate.Struct(r); err != nil {
		return store.Item{}, apperrors.Wrap(apperrors.CodeValidationFailure, "invalid score item", err)
	}
	return store.NewScoreItem(r.Identifier, r.Title, *r.Score, *r.MaxScore), nil
}

// QuantityItemRecord is the wire shape of a quantity outcome item.
type QuantityItemRecord struct {
	Identifier string   `json:"identifier" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Quantity   *float64 `json:"quantity" validate:"required"`
	Primary    bool     `json:"isPrimaryActivityItem"`
}

// Item converts the record into a store item.
func (r QuantityItemRecord) Item() (store.Item, error) {
	if err := validate.Struct(r); err != nil {
		return store.Item{}, apperrors.Wrap(apperrors.CodeValidationFailure, "invalid quantity item", err)
	}
	return store.NewQuantityItem(r.Identifier, r.Title, *r.Quantity), nil
}
