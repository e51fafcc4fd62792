package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
)

// MockMediator records requests and answers them from canned responses keyed by request name
type MockMediator struct {
	mu        sync.Mutex
	sendFunc  func(ctx context.Context, request mediator.Request) (mediator.Response, error)
	responses map[string]mediator.Response
	requests  []mediator.Request
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{responses: make(map[string]mediator.Response)}
}

// Respond sets the response returned for a request type, e.g. Respond("CalculateQuery", resp)
func (m *MockMediator) Respond(requestName string, response mediator.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[requestName] = response
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request mediator.Request) (mediator.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	sendFunc := m.sendFunc
	response, ok := m.responses[mediator.RequestName(request)]
	m.mu.Unlock()

	if sendFunc != nil {
		return sendFunc(ctx, request)
	}
	if !ok {
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
	return response, nil
}

// Requests returns every request sent so far
func (m *MockMediator) Requests() []mediator.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mediator.Request{}, m.requests...)
}

// LastRequest returns the most recent request, or nil
func (m *MockMediator) LastRequest() mediator.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Register implements the Mediator interface (no-op for tests)
func (m *MockMediator) Register(requestType reflect.Type, handler mediator.RequestHandler) error {
	return nil
}

// RegisterMiddleware implements the Mediator interface (no-op for tests)
func (m *MockMediator) RegisterMiddleware(middleware mediator.Middleware) {}

var _ mediator.Mediator = (*MockMediator)(nil)
