package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/recipeshare/backend/internal/models"
	"github.com/recipeshare/backend/internal/service"
)

func setupRecipeAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Recipe{}))

	logger := zap.NewNop()
	handler := NewRecipeHandler(service.NewRecipeService(db, logger), logger)

	r := gin.New()
	handler.RegisterRoutes(r.Group("/api"))
	return r
}

func pancakesPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Pancakes",
		"description": "Fluffy breakfast pancakes",
		"ingredients": []map[string]interface{}{
			{"name": "Flour", "amount": 2, "unit": "cups"},
			{"name": "Milk", "amount": 1.5, "unit": "cups"},
		},
		"instructions": []string{"Mix ingredients", "Fry on a hot pan"},
		"cookingTime":  20,
		"servings":     4,
		"difficulty":   "easy",
		"cuisine":      "American",
		"author":       "Jane",
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func createPancakes(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, envelope := doJSON(t, r, http.MethodPost, "/api/recipes", pancakesPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	data := envelope["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestCreateRecipeEndpoint(t *testing.T) {
	r := setupRecipeAPI(t)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/recipes", pancakesPayload())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, envelope["success"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "Pancakes", data["title"])
	assert.NotEmpty(t, data["id"])
	assert.NotEmpty(t, data["createdAt"])
}

func TestCreateRecipeValidationMessages(t *testing.T) {
	r := setupRecipeAPI(t)

	payload := pancakesPayload()
	payload["title"] = ""
	w, envelope := doJSON(t, r, http.MethodPost, "/api/recipes", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, []interface{}{"Recipe title is required"}, envelope["error"])
}

func TestCreateRecipeEmptyBodyListsEveryViolation(t *testing.T) {
	r := setupRecipeAPI(t)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/recipes", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	messages := envelope["error"].([]interface{})
	assert.Equal(t, []interface{}{
		"Recipe title is required",
		"Recipe description is required",
		"At least one ingredient is required",
		"At least one instruction is required",
		"Cooking time is required",
		"Number of servings is required",
		"Difficulty level is required",
		"Cuisine type is required",
		"Author name is required",
	}, messages)
}

func TestCreateRecipeMalformedBody(t *testing.T) {
	r := setupRecipeAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Invalid request body", envelope["error"])
}

func TestListRecipesEndpoint(t *testing.T) {
	r := setupRecipeAPI(t)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, float64(0), envelope["count"])
	assert.Empty(t, envelope["data"])

	createPancakes(t, r)
	createPancakes(t, r)

	w, envelope = doJSON(t, r, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), envelope["count"])
	assert.Len(t, envelope["data"], 2)
}

func TestGetRecipeEndpoint(t *testing.T) {
	r := setupRecipeAPI(t)
	id := createPancakes(t, r)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/recipes/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, id, data["id"])
	assert.Equal(t, "Pancakes", data["title"])
}

func TestGetRecipeNotFoundEndpoint(t *testing.T) {
	r := setupRecipeAPI(t)

	for _, path := range []string{
		"/api/recipes/6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"/api/recipes/not-a-uuid",
	} {
		w, envelope := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, false, envelope["success"])
		assert.Equal(t, "Recipe not found", envelope["error"])
	}
}

func TestUpdateRecipeEndpoint(t *testing.T) {
	r := setupRecipeAPI(t)
	id := createPancakes(t, r)

	payload := pancakesPayload()
	payload["title"] = "Buttermilk Pancakes"
	w, envelope := doJSON(t, r, http.MethodPut, "/api/recipes/"+id, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "Buttermilk Pancakes", data["title"])
	assert.Equal(t, id, data["id"])
}

func TestUpdateRecipeValidationEndpoint(t *testing.T) {
	r := setupRecipeAPI(t)
	id := createPancakes(t, r)

	payload := pancakesPayload()
	payload["cookingTime"] = -5
	w, envelope := doJSON(t, r, http.MethodPut, "/api/recipes/"+id, payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{"Cooking time must be at least 1 minute"}, envelope["error"])
}

func TestUpdateRecipeNotFoundEndpoint(t *testing.T) {
	r := setupRecipeAPI(t)

	w, envelope := doJSON(t, r, http.MethodPut,
		"/api/recipes/6ba7b810-9dad-11d1-80b4-00c04fd430c8", pancakesPayload())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Recipe not found", envelope["error"])
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	r := setupRecipeAPI(t)
	id := createPancakes(t, r)

	w, envelope := doJSON(t, r, http.MethodDelete, "/api/recipes/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, map[string]interface{}{}, envelope["data"])

	// The same id a second time is a 404.
	w, envelope = doJSON(t, r, http.MethodDelete, "/api/recipes/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Recipe not found", envelope["error"])
}

func TestRecipeLifecycle(t *testing.T) {
	r := setupRecipeAPI(t)

	var ids []string
	for i := 0; i < 3; i++ {
		payload := pancakesPayload()
		payload["title"] = fmt.Sprintf("Recipe %d", i+1)
		w, envelope := doJSON(t, r, http.MethodPost, "/api/recipes", payload)
		require.Equal(t, http.StatusCreated, w.Code)
		ids = append(ids, envelope["data"].(map[string]interface{})["id"].(string))
	}

	_, envelope := doJSON(t, r, http.MethodDelete, "/api/recipes/"+ids[1], nil)
	assert.Equal(t, true, envelope["success"])

	w, envelope := doJSON(t, r, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), envelope["count"])

	remaining := map[string]bool{}
	for _, item := range envelope["data"].([]interface{}) {
		remaining[item.(map[string]interface{})["id"].(string)] = true
	}
	assert.True(t, remaining[ids[0]])
	assert.False(t, remaining[ids[1]])
	assert.True(t, remaining[ids[2]])
}
