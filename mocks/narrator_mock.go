package mocks

import (
	"context"

	"agi_race/story"

	"github.com/stretchr/testify/mock"
)

// MockNarrator is a mock type for the story.Narrator type
type MockNarrator struct {
	mock.Mock
}

// NextState provides a mock function with given fields: ctx, current, choiceText, history
func (_m *MockNarrator) NextState(ctx context.Context, current story.GameState, choiceText string, history []story.HistoryEntry) story.GameState {
	ret := _m.Called(ctx, current, choiceText, history)

	var r0 story.GameState
	if rf, ok := ret.Get(0).(func(context.Context, story.GameState, string, []story.HistoryEntry) story.GameState); ok {
		r0 = rf(ctx, current, choiceText, history)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(story.GameState)
	}

	return r0
}

// NewMockNarrator creates a new instance of MockNarrator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockNarrator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNarrator {
	m := &MockNarrator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ story.Narrator = (*MockNarrator)(nil)
