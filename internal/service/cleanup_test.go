package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"catalogbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCleanupService_PurgeIdleSessions(t *testing.T) {
	tests := []struct {
		name          string
		mockError     error
		expectedError bool
	}{
		{
			name:          "successful cleanup",
			mockError:     nil,
			expectedError: false,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockSessionRepository)
			mockRepo.On("DeleteIdle", mock.Anything, now.Add(-24*time.Hour)).Return(int64(2), tt.mockError)

			service := NewCleanupService(mockRepo, 24*time.Hour, testutil.NewTestLogger())
			service.now = func() time.Time { return now }

			err := service.PurgeIdleSessions(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCleanupService_DisabledTTL(t *testing.T) {
	mockRepo := new(testutil.MockSessionRepository)

	service := NewCleanupService(mockRepo, 0, testutil.NewTestLogger())

	assert.NoError(t, service.PurgeIdleSessions(context.Background()))
	mockRepo.AssertNotCalled(t, "DeleteIdle", mock.Anything, mock.Anything)
}
