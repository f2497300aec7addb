package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/notehive/notehive/pkg/models"
)

type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) ListForGroup(ctx context.Context, callerID, groupID int64) ([]models.Membership, error) {
	args := m.Called(ctx, callerID, groupID)
	return args.Get(0).([]models.Membership), args.Error(1)
}

func (m *MockMembershipService) GetMine(ctx context.Context, callerID, groupID int64) (*models.Membership, error) {
	args := m.Called(ctx, callerID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockMembershipService) ListMine(ctx context.Context, callerID int64) ([]models.Membership, error) {
	args := m.Called(ctx, callerID)
	return args.Get(0).([]models.Membership), args.Error(1)
}

func (m *MockMembershipService) Join(ctx context.Context, callerID, groupID int64) (*models.Membership, error) {
	args := m.Called(ctx, callerID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockMembershipService) Leave(ctx context.Context, callerID, groupID int64) error {
	args := m.Called(ctx, callerID, groupID)
	return args.Error(0)
}

func (m *MockMembershipService) SetRole(ctx context.Context, callerID, groupID, userID int64, role string) (*models.Membership, error) {
	args := m.Called(ctx, callerID, groupID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockMembershipService) Remove(ctx context.Context, callerID, groupID, userID int64) error {
	args := m.Called(ctx, callerID, groupID, userID)
	return args.Error(0)
}

func setupMembershipRouter(handler *MembershipHandler, callerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", callerID)
	})
	router.GET("/api/v1/groups/:groupId/memberships", handler.ListForGroup)
	router.POST("/api/v1/groups/:groupId/memberships", handler.Join)
	router.DELETE("/api/v1/groups/:groupId/memberships", handler.Leave)
	router.PUT("/api/v1/groups/:groupId/memberships/:userId", handler.SetRole)
	router.DELETE("/api/v1/groups/:groupId/memberships/:userId", handler.Remove)
	return router
}

func TestMembershipHandler_Join(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	tests := []struct {
		name           string
		groupID        string
		mockSetup      func(*MockMembershipService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:    "successful join",
			groupID: "42",
			mockSetup: func(m *MockMembershipService) {
				m.On("Join", mock.Anything, int64(9), int64(42)).
					Return(&models.Membership{
						ID: 1, UserID: 9, GroupID: 42,
						Role: models.RoleMember, JoinedAt: time.Now(),
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "unknown group",
			groupID: "404",
			mockSetup: func(m *MockMembershipService) {
				m.On("Join", mock.Anything, int64(9), int64(404)).
					Return(nil, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NOT_FOUND",
		},
		{
			name:           "malformed group id",
			groupID:        "abc",
			mockSetup:      func(m *MockMembershipService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMembershipService)
			tt.mockSetup(mockService)

			handler := NewMembershipHandler(logger, mockService)
			router := setupMembershipRouter(handler, 9)

			req, _ := http.NewRequest("POST", "/api/v1/groups/"+tt.groupID+"/memberships", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestMembershipHandler_SetRole(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(*MockMembershipService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "promote member to admin",
			body: models.SetRoleRequest{Role: models.RoleAdmin},
			mockSetup: func(m *MockMembershipService) {
				m.On("SetRole", mock.Anything, int64(7), int64(42), int64(9), models.RoleAdmin).
					Return(&models.Membership{
						ID: 1, UserID: 9, GroupID: 42,
						Role: models.RoleAdmin, JoinedAt: time.Now(),
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown role rejected by validation",
			body:           map[string]string{"role": "superuser"},
			mockSetup:      func(m *MockMembershipService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_FAILED",
		},
		{
			name: "caller lacks authority",
			body: models.SetRoleRequest{Role: models.RoleAdmin},
			mockSetup: func(m *MockMembershipService) {
				m.On("SetRole", mock.Anything, int64(7), int64(42), int64(9), models.RoleAdmin).
					Return(nil, models.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMembershipService)
			tt.mockSetup(mockService)

			handler := NewMembershipHandler(logger, mockService)
			router := setupMembershipRouter(handler, 7)

			body, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest("PUT", "/api/v1/groups/42/memberships/9", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestMembershipHandler_Leave(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	mockService := new(MockMembershipService)
	mockService.On("Leave", mock.Anything, int64(9), int64(42)).Return(nil)

	handler := NewMembershipHandler(logger, mockService)
	router := setupMembershipRouter(handler, 9)

	req, _ := http.NewRequest("DELETE", "/api/v1/groups/42/memberships", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"left":true`)
	mockService.AssertExpectations(t)
}
