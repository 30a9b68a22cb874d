package models

import "strings"

type GlossaryTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

var glossary = []GlossaryTerm{
	{Term: "Draw", Definition: "One historical lottery event yielding 6 distinct numbers from 1 to 60."},
	{Term: "Draw id", Definition: "Sequential identifier of a draw (concurso)."},
	{Term: "Frequency table", Definition: "Count of historical appearances per number across the filtered draws."},
	{Term: "Ticket", Definition: "A generated or user-chosen candidate set of 6 numbers."},
	{Term: "Weighted sampling", Definition: "Picking numbers with probability proportional to how often they were drawn, never repeating a number within a ticket."},
	{Term: "Filter", Definition: "Inclusive draw-id and date ranges that select which draws feed the frequency table."},
	{Term: "Chi-square", Definition: "Distance between observed frequencies and a perfectly even spread; larger means less uniform."},
}

// Glossary returns terms whose name or definition contains query, or every
// term for an empty query.
func Glossary(query string) []GlossaryTerm {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]GlossaryTerm, 0, len(glossary))
	for _, t := range glossary {
		if query == "" ||
			strings.Contains(strings.ToLower(t.Term), query) ||
			strings.Contains(strings.ToLower(t.Definition), query) {
			out = append(out, t)
		}
	}
	return out
}
