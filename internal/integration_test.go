package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hostel-allocation-backend/config"
	"hostel-allocation-backend/internal/api"
	"hostel-allocation-backend/internal/model"
	"hostel-allocation-backend/internal/notification"
	"hostel-allocation-backend/internal/store"
)

// TestAllocationLifecycle drives the full occupancy lifecycle over HTTP:
// provision a building down to beds, move a student in, observe the
// conflict on a second claim, then move the student out and verify the
// room opens back up.
func TestAllocationLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	err = testDB.AutoMigrate(
		&model.Building{}, &model.Floor{}, &model.Room{}, &model.Bed{},
		&model.Student{}, &model.Allocation{}, &model.User{},
		&model.FeePayment{}, &model.Expense{}, &model.Mess{}, &model.Meal{},
		&model.RoomIssue{}, &model.PushSubscription{},
	)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.WorkerPool.Size = 1

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(testDB)
	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, testDB, nil)
	pool.Start(ctx)

	router := api.NewRouter(appStore, cfg, nil, pool)

	doJSON := func(method, path string, body any) *httptest.ResponseRecorder {
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

	// --- Provision the structure: building -> floors -> rooms -> beds ---

	w := doJSON(http.MethodPost, "/api/buildings", gin.H{
		"name":         "Sunrise Residency",
		"address":      "12 College Road",
		"type":         "boys",
		"total_floors": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var building model.Building
	require.NoError(t, testDB.First(&building, "name = ?", "Sunrise Residency").Error)

	var floors []model.Floor
	require.NoError(t, testDB.Order("floor_number ASC").Find(&floors, "building_id = ?", building.ID).Error)
	require.Len(t, floors, 2, "committing total_floors provisions one row per floor")
	assert.Equal(t, 1, floors[0].FloorNumber)
	assert.Equal(t, 2, floors[1].FloorNumber)

	w = doJSON(http.MethodPut, "/api/floors/"+floors[0].ID.String(), gin.H{"total_rooms": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var room model.Room
	require.NoError(t, testDB.First(&room, "floor_id = ?", floors[0].ID).Error)

	roomNumber := "101"
	totalBeds := "2"
	w = doJSON(http.MethodPut, "/api/rooms/"+room.ID.String(), gin.H{
		"room_number": roomNumber,
		"total_beds":  totalBeds,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var beds []model.Bed
	require.NoError(t, testDB.Order("bed_number ASC").Find(&beds, "room_id = ?", room.ID).Error)
	require.Len(t, beds, 2, "committing total_beds provisions the room's beds")

	// --- Move two students in ---

	w = doJSON(http.MethodPost, "/api/students", gin.H{
		"name":          "Ravi Kumar",
		"mobile_number": "9000000001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = doJSON(http.MethodPost, "/api/students", gin.H{
		"name":          "Amit Shah",
		"mobile_number": "9000000002",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ravi, amit model.Student
	require.NoError(t, testDB.First(&ravi, "mobile_number = ?", "9000000001").Error)
	require.NoError(t, testDB.First(&amit, "mobile_number = ?", "9000000002").Error)

	w = doJSON(http.MethodPost, "/api/allocations", gin.H{
		"student_id": ravi.ID,
		"bed_id":     beds[0].ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var allocResp struct {
		Allocation model.Allocation `json:"allocation"`
		RoomStatus struct {
			AvailableBeds int  `json:"available_beds"`
			IsAvailable   bool `json:"is_available"`
		} `json:"room_status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &allocResp))
	assert.Equal(t, 1, allocResp.RoomStatus.AvailableBeds)
	assert.True(t, allocResp.RoomStatus.IsAvailable)

	// A second claim on the same bed is a conflict, not an error.
	w = doJSON(http.MethodPost, "/api/allocations", gin.H{
		"student_id": amit.ID,
		"bed_id":     beds[0].ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// The same student cannot hold a second bed.
	w = doJSON(http.MethodPost, "/api/allocations", gin.H{
		"student_id": ravi.ID,
		"bed_id":     beds[1].ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// Fill the room and verify it closes.
	w = doJSON(http.MethodPost, "/api/allocations", gin.H{
		"student_id": amit.ID,
		"bed_id":     beds[1].ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(http.MethodGet, fmt.Sprintf("/api/rooms/%s/status", room.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		OccupiedBeds    int  `json:"occupied_beds"`
		AvailableBeds   int  `json:"available_beds"`
		IsFullyOccupied bool `json:"is_fully_occupied"`
		IsAvailable     bool `json:"is_available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, 2, status.OccupiedBeds)
	assert.Equal(t, 0, status.AvailableBeds)
	assert.True(t, status.IsFullyOccupied)
	assert.False(t, status.IsAvailable)

	var dbRoom model.Room
	require.NoError(t, testDB.First(&dbRoom, "id = ?", room.ID).Error)
	assert.False(t, dbRoom.IsAvailable, "persisted availability tracks the bed rows")

	w = doJSON(http.MethodGet, "/api/beds/available", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var available []model.Bed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &available))
	assert.Empty(t, available)

	// --- Move Ravi out and verify the room reopens ---

	var raviAlloc model.Allocation
	require.NoError(t, testDB.First(&raviAlloc, "student_id = ?", ravi.ID).Error)

	w = doJSON(http.MethodDelete, "/api/allocations/"+raviAlloc.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var freedBed model.Bed
	require.NoError(t, testDB.First(&freedBed, "id = ?", beds[0].ID).Error)
	assert.False(t, freedBed.IsOccupied)

	require.NoError(t, testDB.First(&dbRoom, "id = ?", room.ID).Error)
	assert.True(t, dbRoom.IsAvailable)

	err = testDB.First(&model.Allocation{}, "id = ?", raviAlloc.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting Amit cascades through his allocation.
	w = doJSON(http.MethodDelete, "/api/students/"+amit.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var occupied int64
	require.NoError(t, testDB.Model(&model.Bed{}).Where("is_occupied = ?", true).Count(&occupied).Error)
	assert.Equal(t, int64(0), occupied)

	var liveAllocations int64
	require.NoError(t, testDB.Model(&model.Allocation{}).Count(&liveAllocations).Error)
	assert.Equal(t, int64(0), liveAllocations)
}
