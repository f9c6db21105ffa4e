package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Record is the wire representation of a context submitted by a caller.
// Type, Topic and DisplayOrder are optional; absent values fall back the same
// way absent document attributes do.
type Record struct {
	IdentifierPath []string `json:"identifierPath" validate:"required,min=1,dive,required"`
	Title          string   `json:"title" validate:"required"`
	Type           *int     `json:"type,omitempty"`
	Topic          *string  `json:"topic,omitempty"`
	DisplayOrder   *int     `json:"displayOrder,omitempty"`
}

// Validate checks the record's required fields.
func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validate context record: %w", err)
	}
	return nil
}

// ElementFromRecord converts a validated record into an Element. Optional
// fields degrade exactly like absent document attributes: unknown type
// ordinals become TypeNone and unrecognized topics are dropped.
func ElementFromRecord(record Record) (Element, error) {
	if err := record.Validate(); err != nil {
		return Element{}, err
	}

	typ := TypeNone
	if record.Type != nil {
		typ = ParseType(*record.Type)
	}

	var topic Topic
	if record.Topic != nil {
		if parsed, ok := ParseTopic(*record.Topic); ok {
			topic = parsed
		}
	}

	displayOrder := 0
	if record.DisplayOrder != nil {
		displayOrder = *record.DisplayOrder
	}

	return NewElement(record.Title, typ, topic, displayOrder, record.IdentifierPath)
}
