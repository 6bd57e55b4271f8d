// Package modsourcemock is a mockgen-style mock of modsource.ModSource,
// used by ModResolver's unit tests to assert request shape and simulate
// upstream failures without a network call.
package modsourcemock

import (
	"context"
	"reflect"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"go.uber.org/mock/gomock"
)

// MockModSource is a mock of the modsource.ModSource interface.
type MockModSource struct {
	ctrl     *gomock.Controller
	recorder *MockModSourceMockRecorder
}

// MockModSourceMockRecorder is the mock recorder for MockModSource.
type MockModSourceMockRecorder struct {
	mock *MockModSource
}

// NewMockModSource constructs a MockModSource.
func NewMockModSource(ctrl *gomock.Controller) *MockModSource {
	mock := &MockModSource{ctrl: ctrl}
	mock.recorder = &MockModSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockModSource) EXPECT() *MockModSourceMockRecorder {
	return m.recorder
}

// Resolve mocks base method.
func (m *MockModSource) Resolve(ctx context.Context, req modsource.ResolveRequest) (artifact.ResolvedMod, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Resolve", ctx, req)
	ret0, _ := ret[0].(artifact.ResolvedMod)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Resolve indicates an expected call of Resolve.
func (mr *MockModSourceMockRecorder) Resolve(ctx, req any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Resolve", reflect.TypeOf((*MockModSource)(nil).Resolve), ctx, req)
}
