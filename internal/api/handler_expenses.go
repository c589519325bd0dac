package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
)

type createExpenseRequest struct {
	BuildingID      *uuid.UUID `json:"building_id"`
	Date            time.Time  `json:"date" binding:"required"`
	NatureOfExpense string     `json:"nature_of_expense" binding:"required"`
	Amount          int        `json:"amount" binding:"required,gt=0"`
}

// CreateExpense records an operating expense.
func (h *Handler) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.BuildingID != nil {
		var building model.Building
		if err := h.store.DB().First(&building, "id = ?", *req.BuildingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up building"})
			return
		}
	}

	expense := model.Expense{
		BuildingID:      req.BuildingID,
		Date:            req.Date,
		NatureOfExpense: req.NatureOfExpense,
		Amount:          req.Amount,
	}
	if err := h.store.DB().Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record expense"})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// ListExpenses returns expenses, optionally scoped to one building or a
// date range.
func (h *Handler) ListExpenses(c *gin.Context) {
	query := h.store.DB().Model(&model.Expense{}).Order("date DESC")

	if raw := c.Query("building_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid building_id"})
			return
		}
		query = query.Where("building_id = ?", id)
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date <= ?", t)
	}

	var expenses []model.Expense
	if err := query.Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

type updateExpenseRequest struct {
	Date            *time.Time `json:"date"`
	NatureOfExpense *string    `json:"nature_of_expense"`
	Amount          *int       `json:"amount"`
}

// UpdateExpense corrects an expense entry.
func (h *Handler) UpdateExpense(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("expense_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	var req updateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var expense model.Expense
	if err := h.store.DB().First(&expense, "id = ?", expenseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up expense"})
		return
	}

	if req.Date != nil {
		expense.Date = *req.Date
	}
	if req.NatureOfExpense != nil {
		expense.NatureOfExpense = *req.NatureOfExpense
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}

	if err := h.store.DB().Save(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense removes an expense entry.
func (h *Handler) DeleteExpense(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("expense_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	result := h.store.DB().Delete(&model.Expense{}, "id = ?", expenseID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
