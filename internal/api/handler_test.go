package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hostel-allocation-backend/config"
	"hostel-allocation-backend/internal/auth"
	"hostel-allocation-backend/internal/model"
	"hostel-allocation-backend/internal/store"
)

func setupRouterWithConfig(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&model.Building{}, &model.Floor{}, &model.Room{}, &model.Bed{},
		&model.Student{}, &model.Allocation{}, &model.User{},
		&model.FeePayment{}, &model.Expense{}, &model.Mess{}, &model.Meal{},
		&model.RoomIssue{}, &model.PushSubscription{},
	)
	require.NoError(t, err)

	return NewRouter(store.NewGormStore(db), cfg, nil, nil), db
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	return setupRouterWithConfig(t, cfg)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedRoomWithBeds(t *testing.T, db *gorm.DB, bedCount int) (model.Room, []model.Bed) {
	t.Helper()
	building := model.Building{Name: "Test Building", TotalFloors: 1}
	require.NoError(t, db.Create(&building).Error)
	floor := model.Floor{BuildingID: building.ID, FloorNumber: 1}
	require.NoError(t, db.Create(&floor).Error)
	room := model.Room{FloorID: floor.ID, RoomNumber: "101", RoomType: "NON_AC", IsAvailable: true}
	require.NoError(t, db.Create(&room).Error)
	beds := make([]model.Bed, bedCount)
	for i := range beds {
		beds[i] = model.Bed{RoomID: room.ID, BedNumber: fmt.Sprintf("%d", i+1)}
		require.NoError(t, db.Create(&beds[i]).Error)
	}
	return room, beds
}

func TestPutSubscriptionValidation(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/subscriptions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	router, db := setupRouter(t)
	room, _ := seedRoomWithBeds(t, db, 1)

	endpoint := "https://push.example.net/sub/abc"
	w := doJSON(t, router, http.MethodPut, "/api/subscriptions", gin.H{
		"endpoint":         endpoint,
		"p256dh":           "key",
		"auth":             "secret",
		"subscribed_rooms": []uuid.UUID{room.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/subscriptions?endpoint="+url.QueryEscape(endpoint), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SubscribedRooms []uuid.UUID `json:"subscribed_rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uuid.UUID{room.ID}, resp.SubscribedRooms)

	w = doJSON(t, router, http.MethodDelete, "/api/subscriptions", gin.H{"endpoint": endpoint})
	assert.Equal(t, http.StatusNoContent, w.Code)

	// A literal "+" in the endpoint must survive the query round trip.
	plusEndpoint := "https://push.example.net/sub/a+b"
	w = doJSON(t, router, http.MethodPut, "/api/subscriptions", gin.H{
		"endpoint": plusEndpoint,
		"p256dh":   "key",
		"auth":     "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/subscriptions?endpoint="+plusEndpoint, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAllocateEndpointErrors(t *testing.T) {
	router, db := setupRouter(t)
	_, beds := seedRoomWithBeds(t, db, 1)

	student := model.Student{Name: "Ravi", MobileNumber: "9000000001"}
	require.NoError(t, db.Create(&student).Error)

	// Unknown bed maps to 404.
	w := doJSON(t, router, http.MethodPost, "/api/allocations", gin.H{
		"student_id": student.ID,
		"bed_id":     uuid.New(),
	})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/allocations", gin.H{
		"student_id": student.ID,
		"bed_id":     beds[0].ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// An occupied bed maps to 409.
	other := model.Student{Name: "Amit", MobileNumber: "9000000002"}
	require.NoError(t, db.Create(&other).Error)
	w = doJSON(t, router, http.MethodPost, "/api/allocations", gin.H{
		"student_id": other.ID,
		"bed_id":     beds[0].ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestCreateBuildingProvisionsFloors(t *testing.T) {
	router, db := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/buildings", gin.H{
		"name":         "North Wing",
		"total_floors": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var building model.Building
	require.NoError(t, db.First(&building, "name = ?", "North Wing").Error)

	var count int64
	require.NoError(t, db.Model(&model.Floor{}).Where("building_id = ?", building.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	// Lowering the declared count never deletes floors.
	w = doJSON(t, router, http.MethodPut, "/api/buildings/"+building.ID.String(), gin.H{"total_floors": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, db.Model(&model.Floor{}).Where("building_id = ?", building.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"full_name": "Site Warden",
		"phone":     "9111111111",
		"email":     "warden@hostel.test",
		"password":  "supersecret",
		"role":      "warden",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "warden@hostel.test",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnerOnlyRoutes(t *testing.T) {
	secret := "test-secret"
	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Auth.JWTSecret = secret
	router, _ := setupRouterWithConfig(t, cfg)

	do := func(token, method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	ownerToken, err := auth.IssueToken(secret, uuid.New(), "owner", time.Hour)
	require.NoError(t, err)
	wardenToken, err := auth.IssueToken(secret, uuid.New(), "warden", time.Hour)
	require.NoError(t, err)

	// Wardens reach the general surface but not the owner group.
	w := do(wardenToken, http.MethodGet, "/api/students")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(wardenToken, http.MethodGet, "/api/expenses")
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	w = do(wardenToken, http.MethodDelete, "/api/buildings/"+uuid.New().String())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(ownerToken, http.MethodGet, "/api/expenses")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// No token at all is rejected before the role gate.
	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
