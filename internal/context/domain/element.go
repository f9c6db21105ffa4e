package domain

import (
	"errors"
	"strings"
)

// Type classifies a context node within the tree.
type Type int

const (
	// TypeNone indicates an unclassified context.
	TypeNone Type = iota
	// TypeSubject is a top-level subject area.
	TypeSubject
	// TypeChapter is a chapter within a subject.
	TypeChapter
	// TypeLevel is a difficulty or grade level grouping.
	TypeLevel
	// TypeActivitySection groups related activities.
	TypeActivitySection
	// TypeActivity is a trackable activity.
	TypeActivity
	// TypeTask is a single task within an activity.
	TypeTask
	// TypeExercise is a practice exercise.
	TypeExercise
	// TypeQuiz is a graded quiz.
	TypeQuiz
)

// ParseType maps a wire ordinal to a Type. Unrecognized ordinals map to
// TypeNone, matching the lenient attribute handling of the document format.
func ParseType(ordinal int) Type {
	if ordinal < int(TypeNone) || ordinal > int(TypeQuiz) {
		return TypeNone
	}
	return Type(ordinal)
}

// String returns the lowerCamel name used in documents and logs.
func (t Type) String() string {
	switch t {
	case TypeSubject:
		return "subject"
	case TypeChapter:
		return "chapter"
	case TypeLevel:
		return "level"
	case TypeActivitySection:
		return "activitySection"
	case TypeActivity:
		return "activity"
	case TypeTask:
		return "task"
	case TypeExercise:
		return "exercise"
	case TypeQuiz:
		return "quiz"
	default:
		return "none"
	}
}

// Topic is the subject-matter classification of a context. The empty string
// means no topic.
type Topic string

const (
	TopicMath                          Topic = "math"
	TopicScience                       Topic = "science"
	TopicLiteracyAndWriting            Topic = "literacyAndWriting"
	TopicWorldLanguage                 Topic = "worldLanguage"
	TopicSocialScience                 Topic = "socialScience"
	TopicComputerScienceAndEngineering Topic = "computerScienceAndEngineering"
	TopicArtsAndMusic                  Topic = "artsAndMusic"
	TopicHealthAndFitness              Topic = "healthAndFitness"
)

// ParseTopic matches value against the fixed topic vocabulary. The match is
// case-sensitive; unrecognized values report false.
func ParseTopic(value string) (Topic, bool) {
	switch Topic(value) {
	case TopicMath, TopicScience, TopicLiteracyAndWriting, TopicWorldLanguage,
		TopicSocialScience, TopicComputerScienceAndEngineering,
		TopicArtsAndMusic, TopicHealthAndFitness:
		return Topic(value), true
	}
	return "", false
}

// ErrEmptyIdentifierPath indicates a context element without an identifier path.
var ErrEmptyIdentifierPath = errors.New("identifier path is required")

// Element is an immutable description of one context tree node. Identity is
// the (Identifier, IdentifierPath) pair; two elements with equal identifier
// and path describe the same node regardless of the remaining fields.
type Element struct {
	Title          string
	Type           Type
	Topic          Topic
	Identifier     string
	DisplayOrder   int
	IdentifierPath []string
}

// NewElement builds an Element from its parts. The identifier is derived from
// the last path segment. An empty path, or a path whose last segment is
// blank, is rejected.
func NewElement(title string, typ Type, topic Topic, displayOrder int, identifierPath []string) (Element, error) {
	if len(identifierPath) == 0 {
		return Element{}, ErrEmptyIdentifierPath
	}
	identifier := identifierPath[len(identifierPath)-1]
	if strings.TrimSpace(identifier) == "" {
		return Element{}, ErrEmptyIdentifierPath
	}
	path := make([]string, len(identifierPath))
	copy(path, identifierPath)
	return Element{
		Title:          title,
		Type:           typ,
		Topic:          topic,
		Identifier:     identifier,
		DisplayOrder:   displayOrder,
		IdentifierPath: path,
	}, nil
}

// keySeparator cannot appear in identifiers that come from comma-separated
// document attributes, so joined keys are unambiguous.
const keySeparator = "\x1f"

// Key returns the composite identity key for set membership.
func (e Element) Key() string {
	return strings.Join(e.IdentifierPath, keySeparator) + keySeparator + e.Identifier
}

// Equal reports identity equality: same identifier and same path.
func (e Element) Equal(other Element) bool {
	if e.Identifier != other.Identifier {
		return false
	}
	if len(e.IdentifierPath) != len(other.IdentifierPath) {
		return false
	}
	for i := range e.IdentifierPath {
		if e.IdentifierPath[i] != other.IdentifierPath[i] {
			return false
		}
	}
	return true
}

// Descriptor carries everything the store needs to build and decorate a
// native node for a resolved element.
type Descriptor struct {
	Type           Type
	Identifier     string
	Title          string
	DisplayOrder   int
	Topic          Topic
	IdentifierPath []string
	// Link is an optional deep-link URL into the node, empty when no URL
	// prefix is configured.
	Link string
}
