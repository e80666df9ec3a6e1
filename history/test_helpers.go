package history

import "github.com/stretchr/testify/mock"

// MatchEntries creates a custom matcher for history list arguments in mocks
func MatchEntries(matcher func([]Entry) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchScheduled creates a custom matcher for scheduled list arguments in mocks
func MatchScheduled(matcher func([]ScheduledEntry) bool) interface{} {
	return mock.MatchedBy(matcher)
}
