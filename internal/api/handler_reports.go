package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
)

// BuildingHierarchyReport returns one building fully expanded down to the
// bed level. The response is cached; occupancy shown here may lag a
// mutation by up to the cache TTL.
func (h *Handler) BuildingHierarchyReport(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid building id"})
		return
	}

	var building model.Building
	err = h.store.DB().
		Preload("Floors", func(db *gorm.DB) *gorm.DB {
			return db.Order("floor_number ASC")
		}).
		Preload("Floors.Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("room_number ASC")
		}).
		Preload("Floors.Rooms.Beds", func(db *gorm.DB) *gorm.DB {
			return db.Order("bed_number ASC")
		}).
		First(&building, "id = ?", buildingID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load building"})
		return
	}

	c.JSON(http.StatusOK, building)
}

type occupiedBedRow struct {
	BedID        uuid.UUID `json:"bed_id"`
	BedNumber    string    `json:"bed_number"`
	RoomID       uuid.UUID `json:"room_id"`
	RoomNumber   string    `json:"room_number"`
	FloorNumber  int       `json:"floor_number"`
	StudentID    uuid.UUID `json:"student_id"`
	StudentName  string    `json:"student_name"`
	MobileNumber string    `json:"mobile_number"`
	AllocatedAt  time.Time `json:"allocated_at"`
}

// OccupiedBedsReport lists every occupied bed in a building together with
// the student holding it.
func (h *Handler) OccupiedBedsReport(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid building id"})
		return
	}

	var rows []occupiedBedRow
	err = h.store.DB().Model(&model.Allocation{}).
		Select(`beds.id AS bed_id, beds.bed_number, rooms.id AS room_id, rooms.room_number,
			floors.floor_number, students.id AS student_id, students.name AS student_name,
			students.mobile_number, allocations.allocated_at`).
		Joins("JOIN beds ON beds.id = allocations.bed_id").
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Joins("JOIN students ON students.id = allocations.student_id").
		Where("floors.building_id = ?", buildingID).
		Order("floors.floor_number ASC, rooms.room_number ASC, beds.bed_number ASC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"building_id":   buildingID,
		"occupied_beds": rows,
	})
}

type buildingStudentRow struct {
	StudentID    uuid.UUID `json:"student_id"`
	Name         string    `json:"name"`
	MobileNumber string    `json:"mobile_number"`
	RoomNumber   string    `json:"room_number"`
	BedNumber    string    `json:"bed_number"`
	AllocatedAt  time.Time `json:"allocated_at"`
}

// BuildingStudentsReport lists the students currently housed in a
// building, resolved through their live allocations.
func (h *Handler) BuildingStudentsReport(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid building id"})
		return
	}

	var rows []buildingStudentRow
	err = h.store.DB().Model(&model.Allocation{}).
		Select(`students.id AS student_id, students.name, students.mobile_number,
			rooms.room_number, beds.bed_number, allocations.allocated_at`).
		Joins("JOIN students ON students.id = allocations.student_id").
		Joins("JOIN beds ON beds.id = allocations.bed_id").
		Joins("JOIN rooms ON rooms.id = allocations.room_id").
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Where("floors.building_id = ?", buildingID).
		Order("students.name ASC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"building_id": buildingID,
		"students":    rows,
	})
}
