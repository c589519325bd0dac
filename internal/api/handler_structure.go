package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
)

// BuildingResponse represents the API response for a single building.
type BuildingResponse struct {
	model.Building
	FloorCount int64 `json:"floor_count"`
	RoomCount  int64 `json:"room_count"`
}

// GetBuildings handles the GET /api/buildings request.
func GetBuildings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buildings []model.Building
		if err := db.Find(&buildings).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve buildings"})
			return
		}

		type aggRow struct {
			BuildingID uuid.UUID
			FloorCount int64
			RoomCount  int64
		}
		var aggs []aggRow
		if err := db.
			Model(&model.Floor{}).
			Select("floors.building_id as building_id, COUNT(DISTINCT floors.id) as floor_count, COUNT(rooms.id) as room_count").
			Joins("LEFT JOIN rooms ON rooms.floor_id = floors.id").
			Group("floors.building_id").
			Scan(&aggs).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate floors"})
			return
		}

		aggMap := make(map[uuid.UUID]aggRow, len(aggs))
		for _, a := range aggs {
			aggMap[a.BuildingID] = a
		}

		responses := make([]BuildingResponse, 0, len(buildings))
		for _, b := range buildings {
			a := aggMap[b.ID] // zero value when no floors yet
			responses = append(responses, BuildingResponse{
				Building: b, FloorCount: a.FloorCount, RoomCount: a.RoomCount,
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}

type createBuildingRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Type        string `json:"type"`
	TotalFloors int    `json:"total_floors"`
}

// CreateBuilding creates a building; committing its floor capacity runs
// the floor provisioner synchronously.
func (h *Handler) CreateBuilding(c *gin.Context) {
	var req createBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TotalFloors < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_floors must not be negative"})
		return
	}

	building := model.Building{
		Name:        req.Name,
		Address:     req.Address,
		Type:        req.Type,
		TotalFloors: req.TotalFloors,
	}
	if err := h.store.DB().Create(&building).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create building"})
		return
	}

	if err := h.store.SetBuildingFloorCount(c.Request.Context(), building.ID, building.TotalFloors); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, building)
}

// GetBuilding returns one building with its floors.
func (h *Handler) GetBuilding(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid building ID"})
		return
	}

	var building model.Building
	if err := h.store.DB().Preload("Floors").First(&building, "id = ?", buildingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve building"})
		return
	}
	c.JSON(http.StatusOK, building)
}

type updateBuildingRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Type        *string `json:"type"`
	TotalFloors *int    `json:"total_floors"`
}

// UpdateBuilding patches building fields. Raising total_floors provisions
// the missing floors; lowering it never removes any.
func (h *Handler) UpdateBuilding(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid building ID"})
		return
	}

	var req updateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var building model.Building
	if err := h.store.DB().First(&building, "id = ?", buildingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve building"})
		return
	}

	if req.Name != nil {
		building.Name = *req.Name
	}
	if req.Address != nil {
		building.Address = *req.Address
	}
	if req.Type != nil {
		building.Type = *req.Type
	}
	if req.TotalFloors != nil {
		building.TotalFloors = *req.TotalFloors
	}
	if err := h.store.DB().Save(&building).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update building"})
		return
	}

	if req.TotalFloors != nil {
		if err := h.store.SetBuildingFloorCount(c.Request.Context(), building.ID, building.TotalFloors); err != nil {
			respondStoreError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, building)
}

// DeleteBuilding removes a building and cascades to its floors, rooms,
// beds, and allocations.
func (h *Handler) DeleteBuilding(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid building ID"})
		return
	}

	res := h.store.DB().Delete(&model.Building{}, "id = ?", buildingID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete building"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "building deleted"})
}

// ListFloors returns the floors of a building.
func (h *Handler) ListFloors(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid building ID"})
		return
	}

	var floors []model.Floor
	if err := h.store.DB().
		Where("building_id = ?", buildingID).
		Order("floor_number").
		Find(&floors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve floors"})
		return
	}
	c.JSON(http.StatusOK, floors)
}

type updateFloorRequest struct {
	TotalRooms *int `json:"total_rooms"`
}

// UpdateFloor commits a floor's room capacity; the room provisioner runs
// synchronously on the new value.
func (h *Handler) UpdateFloor(c *gin.Context) {
	floorID, err := uuid.Parse(c.Param("floor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid floor ID"})
		return
	}

	var req updateFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TotalRooms == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_rooms is required"})
		return
	}

	var floor model.Floor
	if err := h.store.DB().First(&floor, "id = ?", floorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "floor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve floor"})
		return
	}

	floor.TotalRooms = req.TotalRooms
	if err := h.store.DB().Save(&floor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update floor"})
		return
	}

	if err := h.store.SetFloorRoomCount(c.Request.Context(), floor.ID, *req.TotalRooms); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, floor)
}

// ListRooms returns the rooms of a floor with their beds.
func (h *Handler) ListRooms(c *gin.Context) {
	floorID, err := uuid.Parse(c.Param("floor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid floor ID"})
		return
	}

	var rooms []model.Room
	if err := h.store.DB().
		Preload("Beds").
		Where("floor_id = ?", floorID).
		Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

type updateRoomRequest struct {
	RoomNumber  *string `json:"room_number"`
	RoomType    *string `json:"room_type"`
	Preference  *string `json:"preference"`
	TotalBeds   *string `json:"total_beds"`
	MonthlyRent *string `json:"monthly_rent"`
}

// UpdateRoom patches room fields. Committing total_beds runs the bed
// provisioner, which creates beds only if the room has none yet.
func (h *Handler) UpdateRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var room model.Room
	if err := h.store.DB().First(&room, "id = ?", roomID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve room"})
		return
	}

	if req.RoomNumber != nil {
		room.RoomNumber = *req.RoomNumber
	}
	if req.RoomType != nil {
		room.RoomType = *req.RoomType
	}
	if req.Preference != nil {
		room.Preference = *req.Preference
	}
	if req.TotalBeds != nil {
		room.TotalBeds = *req.TotalBeds
	}
	if req.MonthlyRent != nil {
		room.MonthlyRent = *req.MonthlyRent
	}
	if err := h.store.DB().Save(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
		return
	}

	if err := h.store.SyncRoomBeds(c.Request.Context(), room.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

type createBedRequest struct {
	BedNumber   string `json:"bed_number" binding:"required"`
	MonthlyRent string `json:"monthly_rent"`
}

// CreateBed adds a bed explicitly. Capacity never shrinks automatically,
// so growing or pruning beds past the initial provisioning is an explicit
// operator action.
func (h *Handler) CreateBed(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var req createBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var room model.Room
	if err := h.store.DB().First(&room, "id = ?", roomID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve room"})
		return
	}

	bed := model.Bed{
		RoomID:      roomID,
		BedNumber:   req.BedNumber,
		MonthlyRent: req.MonthlyRent,
	}
	if err := h.store.DB().Create(&bed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bed"})
		return
	}

	// A new bed is free, which can flip the room back to available.
	if err := h.store.SyncRoomBeds(c.Request.Context(), roomID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bed)
}

// DeleteBed removes a bed through the cascading release path.
func (h *Handler) DeleteBed(c *gin.Context) {
	bedID, err := uuid.Parse(c.Param("bed_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bed ID"})
		return
	}

	if err := h.store.DeleteBed(c.Request.Context(), bedID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bed deleted"})
}
