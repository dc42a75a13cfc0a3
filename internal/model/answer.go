package model

import (
	"encoding/json"
	"fmt"
)

// AnswerKind tags the payload variant stored on a Response.
type AnswerKind string

const (
	AnswerKindText            AnswerKind = "text"
	AnswerKindRankedVerticals AnswerKind = "ranked_verticals"
	AnswerKindSingleChoice    AnswerKind = "single_choice"
)

// Answer is the tagged union of the three payload shapes a question can
// collect. Consumers switch on the concrete type; there is no field probing.
type Answer interface {
	Kind() AnswerKind
}

// TextAnswer is a free-text response (Parts B, C and D).
type TextAnswer struct {
	Text string `json:"text"`
}

func (TextAnswer) Kind() AnswerKind { return AnswerKindText }

// RankedVerticalAnswer is Part A's response: the problem description plus
// exactly three verticals ranked by relevance.
type RankedVerticalAnswer struct {
	Text        string `json:"text"`
	VerticalIDs []uint `json:"vertical_ids"` // ranked, highest first
}

func (RankedVerticalAnswer) Kind() AnswerKind { return AnswerKindRankedVerticals }

// SingleChoiceAnswer is Part E's response, one option from a fixed set.
type SingleChoiceAnswer struct {
	Choice string `json:"choice"`
}

func (SingleChoiceAnswer) Kind() AnswerKind { return AnswerKindSingleChoice }

// answerEnvelope is the persisted JSON shape: {"kind": ..., "answer": {...}}.
type answerEnvelope struct {
	Kind   AnswerKind      `json:"kind"`
	Answer json.RawMessage `json:"answer"`
}

// MarshalAnswer serializes an Answer into its envelope form for storage.
func MarshalAnswer(a Answer) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("cannot marshal nil answer")
	}
	inner, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s answer: %w", a.Kind(), err)
	}
	return json.Marshal(answerEnvelope{Kind: a.Kind(), Answer: inner})
}

// UnmarshalAnswer decodes an envelope back into its concrete variant.
func UnmarshalAnswer(data []byte) (Answer, error) {
	var env answerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode answer envelope: %w", err)
	}
	switch env.Kind {
	case AnswerKindText:
		var a TextAnswer
		if err := json.Unmarshal(env.Answer, &a); err != nil {
			return nil, fmt.Errorf("failed to decode text answer: %w", err)
		}
		return a, nil
	case AnswerKindRankedVerticals:
		var a RankedVerticalAnswer
		if err := json.Unmarshal(env.Answer, &a); err != nil {
			return nil, fmt.Errorf("failed to decode ranked verticals answer: %w", err)
		}
		return a, nil
	case AnswerKindSingleChoice:
		var a SingleChoiceAnswer
		if err := json.Unmarshal(env.Answer, &a); err != nil {
			return nil, fmt.Errorf("failed to decode single choice answer: %w", err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown answer kind %q", env.Kind)
	}
}
