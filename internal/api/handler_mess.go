package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
)

// GetMess returns the mess of a building with its meal schedule.
func (h *Handler) GetMess(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid building id"})
		return
	}

	var mess model.Mess
	if err := h.store.DB().Preload("Meals").First(&mess, "building_id = ?", buildingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "no mess configured for building"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up mess"})
		return
	}

	c.JSON(http.StatusOK, mess)
}

type putMealRequest struct {
	Meal   string         `json:"meal" binding:"required,oneof=breakfast lunch snacks dinner"`
	Timing string         `json:"timing"`
	Status string         `json:"status" binding:"omitempty,oneof=Available 'Not Available'"`
	Menu   datatypes.JSON `json:"menu"`
}

type putMessRequest struct {
	Meals []putMealRequest `json:"meals" binding:"required,dive"`
}

// PutMess replaces the meal schedule of a building's mess, creating the
// mess on first write.
func (h *Handler) PutMess(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("building_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid building id"})
		return
	}

	var req putMessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var mess model.Mess
	err = h.store.DB().Transaction(func(tx *gorm.DB) error {
		var building model.Building
		if err := tx.First(&building, "id = ?", buildingID).Error; err != nil {
			return err
		}

		if err := tx.Where(model.Mess{BuildingID: buildingID}).FirstOrCreate(&mess).Error; err != nil {
			return err
		}

		if err := tx.Where("mess_id = ?", mess.ID).Delete(&model.Meal{}).Error; err != nil {
			return err
		}

		for _, m := range req.Meals {
			meal := model.Meal{
				MessID: mess.ID,
				Meal:   m.Meal,
				Timing: m.Timing,
				Status: m.Status,
				Menu:   m.Menu,
			}
			if err := tx.Create(&meal).Error; err != nil {
				return err
			}
			mess.Meals = append(mess.Meals, meal)
		}
		return nil
	})

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update mess"})
		return
	}

	c.JSON(http.StatusOK, mess)
}
