package workflow

import "github.com/dukex/leadflow/pkg/models"

// Matchers inspect only the trigger of each compiled graph. Graphs are expected
// in store order (oldest first), so single-match resolvers pick the oldest.

// MatchQuoteIntent returns the first graph fired by a quote request in chat, or nil.
func MatchQuoteIntent(graphs []*models.WorkflowGraph) *models.WorkflowGraph {
	for _, g := range graphs {
		if g.Trigger.Kind == models.TriggerKindMessageInChat && g.Trigger.IsQuoteIntent() {
			return g
		}
	}

	return nil
}

// MatchFormSubmit returns the first graph configured for the submitted form, or nil.
func MatchFormSubmit(graphs []*models.WorkflowGraph, formID string) *models.WorkflowGraph {
	if formID == "" {
		return nil
	}

	for _, g := range graphs {
		if g.Trigger.Kind == models.TriggerKindFormSubmit && g.Trigger.FormID == formID {
			return g
		}
	}

	return nil
}

// MatchEmailReceived returns every graph listening on the mailbox scope.
func MatchEmailReceived(graphs []*models.WorkflowGraph, scopeID string) []*models.WorkflowGraph {
	var matched []*models.WorkflowGraph

	for _, g := range graphs {
		if g.Trigger.Kind == models.TriggerKindEmailReceived && g.Trigger.ScopeID == scopeID {
			matched = append(matched, g)
		}
	}

	return matched
}

// MatchTagAdded returns every graph of the scope fired by the tag. A trigger
// without a tag filter fires for any tag.
func MatchTagAdded(graphs []*models.WorkflowGraph, scopeID, tag string) []*models.WorkflowGraph {
	var matched []*models.WorkflowGraph

	for _, g := range graphs {
		if g.Trigger.Kind != models.TriggerKindTagAdded || g.Trigger.ScopeID != scopeID {
			continue
		}

		if g.Trigger.Tag != "" && g.Trigger.Tag != tag {
			continue
		}

		matched = append(matched, g)
	}

	return matched
}
