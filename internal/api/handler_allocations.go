package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
	"hostel-allocation-backend/internal/store"
)

type allocateBedRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	BedID     uuid.UUID `json:"bed_id" binding:"required"`
}

// AllocateBed handles POST /api/allocations.
func (h *Handler) AllocateBed(c *gin.Context) {
	var req allocateBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var allocatedBy *uuid.UUID
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uuid.UUID); ok {
			allocatedBy = &id
		}
	}

	alloc, err := h.store.Allocate(c.Request.Context(), req.StudentID, req.BedID, allocatedBy)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	status, err := h.store.RoomStatus(c.Request.Context(), alloc.RoomID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Bed allocated successfully",
		"allocation":  alloc,
		"room_status": status,
	})
}

// DeallocateBed handles DELETE /api/allocations/{allocation_id}. The freed
// room is dispatched to the notification pool so waitlist subscribers hear
// about the opening.
func (h *Handler) DeallocateBed(c *gin.Context) {
	allocationID, err := uuid.Parse(c.Param("allocation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid allocation ID"})
		return
	}

	roomID, err := h.store.Deallocate(c.Request.Context(), allocationID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(roomID)
	}

	status, err := h.store.RoomStatus(c.Request.Context(), roomID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Bed deallocated successfully",
		"room_status": status,
	})
}

// ListAllocations handles GET /api/allocations with optional student_id
// and room_id filters.
func (h *Handler) ListAllocations(c *gin.Context) {
	q := h.store.DB().Model(&model.Allocation{})

	if v := c.Query("student_id"); v != "" {
		studentID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
			return
		}
		q = q.Where("student_id = ?", studentID)
	}
	if v := c.Query("room_id"); v != "" {
		roomID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
			return
		}
		q = q.Where("room_id = ?", roomID)
	}

	var allocations []model.Allocation
	if err := q.Order("allocated_at DESC").Find(&allocations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve allocations"})
		return
	}
	c.JSON(http.StatusOK, allocations)
}

// GetAllocation handles GET /api/allocations/{allocation_id}.
func (h *Handler) GetAllocation(c *gin.Context) {
	allocationID, err := uuid.Parse(c.Param("allocation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid allocation ID"})
		return
	}

	var alloc model.Allocation
	if err := h.store.DB().First(&alloc, "id = ?", allocationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "allocation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve allocation"})
		return
	}
	c.JSON(http.StatusOK, alloc)
}

// GetRoomStatus handles GET /api/rooms/{room_id}/status.
func (h *Handler) GetRoomStatus(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	status, err := h.store.RoomStatus(c.Request.Context(), roomID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ListAvailableBeds handles GET /api/beds/available with optional
// building_id, floor_id, and room_id filters.
func (h *Handler) ListAvailableBeds(c *gin.Context) {
	var filter store.BedFilter

	if v := c.Query("building_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid building ID"})
			return
		}
		filter.BuildingID = &id
	}
	if v := c.Query("floor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid floor ID"})
			return
		}
		filter.FloorID = &id
	}
	if v := c.Query("room_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
			return
		}
		filter.RoomID = &id
	}

	beds, err := h.store.ListAvailableBeds(c.Request.Context(), filter)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available_beds_count": len(beds),
		"beds":                 beds,
	})
}
