package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/videotube/backend/internal/constants"
	"github.com/videotube/backend/internal/model"
	"gorm.io/gorm"
)

func TestGetCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(nil, nil, nil)

	t.Run("authenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		c.Set(constants.GinKeyUser, &model.User{
			Model:        gorm.Model{ID: 7},
			Username:     "chai",
			Email:        "chai@example.com",
			FullName:     "Chai Aur Code",
			Password:     "$2a$10$secret-hash",
			RefreshToken: "secret-refresh-token",
		})

		h.GetCurrentUser(c)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var envelope constants.APIResponse
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if !envelope.Success || envelope.StatusCode != http.StatusOK {
			t.Errorf("envelope = %+v", envelope)
		}

		body := w.Body.String()
		if !strings.Contains(body, "\"username\":\"chai\"") {
			t.Errorf("body should carry the username: %s", body)
		}
		if strings.Contains(body, "secret-hash") || strings.Contains(body, "secret-refresh-token") {
			t.Errorf("credentials leaked into the response: %s", body)
		}
		if strings.Contains(body, "password") || strings.Contains(body, "refreshToken") {
			t.Errorf("credential fields present in the response: %s", body)
		}
	})

	t.Run("missing user rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)

		h.GetCurrentUser(c)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}
