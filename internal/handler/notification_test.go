package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippet-social/internal/apperror"
	"github.com/sakif/snippet-social/internal/handler"
)

type MockMarker struct {
	Called      bool
	CapturedIDs []string
	ReturnErr   error
}

func (m *MockMarker) MarkRead(ctx context.Context, ids []string) error {
	m.Called = true
	m.CapturedIDs = ids
	return m.ReturnErr
}

func TestNotificationHandler_HandleMarkRead(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantIDs    []string
		wantCalled bool
	}{
		{"array body", `["n1","n2"]`, http.StatusOK, []string{"n1", "n2"}, true},
		{"object body", `{"notificationIds":["n1"]}`, http.StatusOK, []string{"n1"}, true},
		{"empty array", `[]`, http.StatusOK, []string{}, true},
		{"empty object list", `{"notificationIds":[]}`, http.StatusOK, []string{}, true},
		{"missing body", ``, http.StatusBadRequest, nil, false},
		{"null body", `null`, http.StatusBadRequest, nil, false},
		{"object without ids", `{}`, http.StatusBadRequest, nil, false},
		{"malformed json", `["n1",`, http.StatusBadRequest, nil, false},
		{"wrong element type", `[1,2]`, http.StatusBadRequest, nil, false},
		{"string body", `"n1"`, http.StatusBadRequest, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marker := &MockMarker{}
			h := handler.NewNotificationHandler(marker, testLogger())

			req := httptest.NewRequest(http.MethodPost, "/notifications/read", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			h.HandleMarkRead(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalled, marker.Called)
			if tt.wantCalled {
				assert.Equal(t, tt.wantIDs, marker.CapturedIDs)

				var res handler.MessageResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
				assert.Equal(t, "Notifications marked read", res.Message)
			}
		})
	}
}

func TestNotificationHandler_HandleMarkRead_Errors(t *testing.T) {
	t.Run("invalid id from service", func(t *testing.T) {
		marker := &MockMarker{ReturnErr: apperror.BadRequest("notificationIds", "Notification ids must not be empty")}
		h := handler.NewNotificationHandler(marker, testLogger())

		rr := httptest.NewRecorder()
		h.HandleMarkRead(rr, httptest.NewRequest(http.MethodPost, "/notifications/read", strings.NewReader(`[""]`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("batch failure", func(t *testing.T) {
		marker := &MockMarker{ReturnErr: apperror.StoreFailure("not-found", false, errors.New("missing"))}
		h := handler.NewNotificationHandler(marker, testLogger())

		rr := httptest.NewRecorder()
		h.HandleMarkRead(rr, httptest.NewRequest(http.MethodPost, "/notifications/read", strings.NewReader(`["n1"]`)))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		res := decodeError(t, rr)
		assert.Equal(t, "store_failure", res.Error)
		assert.Equal(t, "not-found", res.Code)
		assert.False(t, res.Retryable)
	})

	t.Run("oversized body", func(t *testing.T) {
		marker := &MockMarker{}
		h := handler.NewNotificationHandler(marker, testLogger())

		big := `["` + strings.Repeat("x", 2<<20) + `"]`
		rr := httptest.NewRecorder()
		h.HandleMarkRead(rr, httptest.NewRequest(http.MethodPost, "/notifications/read", strings.NewReader(big)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, marker.Called)
	})
}
