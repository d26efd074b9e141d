package mailer

import (
	"context"

	"github.com/ruteri/secure-date-gateway/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockMailer mocks the Mailer interface
type MockMailer struct {
	mock.Mock
}

// Send mocks the Send method
func (m *MockMailer) Send(ctx context.Context, msg interfaces.Message) (interfaces.MessageID, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(interfaces.MessageID), args.Error(1)
}
