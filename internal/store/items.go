package store

import "fmt"

// ItemKind distinguishes the three outcome item shapes.
type ItemKind int

const (
	// ItemBinary is a boolean outcome (correct/incorrect, pass/fail, yes/no).
	ItemBinary ItemKind = iota
	// ItemScore is a score out of a maximum.
	ItemScore
	// ItemQuantity is a plain quantity.
	ItemQuantity
)

// String returns the kind name used in snapshots and logs.
func (k ItemKind) String() string {
	switch k {
	case ItemScore:
		return "score"
	case ItemQuantity:
		return "quantity"
	default:
		return "binary"
	}
}

// BinaryValueType describes how a binary item's boolean value is presented.
type BinaryValueType int

const (
	// BinaryTrueFalse presents the value as true/false.
	BinaryTrueFalse BinaryValueType = iota
	// BinaryPassFail presents the value as pass/fail.
	BinaryPassFail
	// BinaryYesNo presents the value as yes/no.
	BinaryYesNo
)

// Item is one outcome item attached to an activity. Kind selects which value
// fields are meaningful.
type Item struct {
	Kind       ItemKind
	Identifier string
	Title      string

	// Binary items.
	BinaryType BinaryValueType
	Correct    bool

	// Score items.
	Score    float64
	MaxScore float64

	// Quantity items.
	Quantity float64
}

// NewBinaryItem builds a binary outcome item.
func NewBinaryItem(identifier, title string, valueType BinaryValueType, correct bool) Item {
	return Item{Kind: ItemBinary, Identifier: identifier, Title: title, BinaryType: valueType, Correct: correct}
}

// NewScoreItem builds a score outcome item.
func NewScoreItem(identifier, title string, score, maxScore float64) Item {
	return Item{Kind: ItemScore, Identifier: identifier, Title: title, Score: score, MaxScore: maxScore}
}

// NewQuantityItem builds a quantity outcome item.
func NewQuantityItem(identifier, title string, quantity float64) Item {
	return Item{Kind: ItemQuantity, Identifier: identifier, Title: title, Quantity: quantity}
}

// String summarizes the item for diagnostics.
func (i Item) String() string {
	switch i.Kind {
	case ItemScore:
		return fmt.Sprintf("score %q (%s): %g/%g", i.Identifier, i.Title, i.Score, i.MaxScore)
	case ItemQuantity:
		return fmt.Sprintf("quantity %q (%s): %g", i.Identifier, i.Title, i.Quantity)
	default:
		return fmt.Sprintf("binary %q (%s): %t", i.Identifier, i.Title, i.Correct)
	}
}
