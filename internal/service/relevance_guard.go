package service

import (
	"errors"
	"strings"

	"github.com/lamngoc/ascent/config"
)

// ErrDraftOffTopic means the AI draft ignored a specific scenario the
// candidate described. The remedy is a manual rewrite, not a retry, so
// callers surface a distinct message for it.
var ErrDraftOffTopic = errors.New("draft does not address the scenario described in Part A")

// RelevanceGuard is a deterministic keyword check applied to AI drafts for
// Part B. The trigger set is hand-tuned per deployment and configurable; it
// only catches the keyword family it was built for.
type RelevanceGuard struct {
	triggers []string
}

func NewRelevanceGuard(cfg *config.Config) *RelevanceGuard {
	triggers := make([]string, 0, len(cfg.Guard.Triggers))
	for _, t := range cfg.Guard.Triggers {
		triggers = append(triggers, strings.ToLower(t))
	}
	return &RelevanceGuard{triggers: triggers}
}

// Check rejects the draft when the candidate's own Part A text contains a
// trigger phrase but the draft mentions none of them. Text outside the
// trigger family passes unchecked.
func (g *RelevanceGuard) Check(priorText, draft string) error {
	if !g.containsTrigger(priorText) {
		return nil
	}
	if g.containsTrigger(draft) {
		return nil
	}
	return ErrDraftOffTopic
}

func (g *RelevanceGuard) containsTrigger(text string) bool {
	lowered := strings.ToLower(text)
	for _, t := range g.triggers {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}
