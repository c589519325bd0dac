package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
)

type createFeeRequest struct {
	StudentID            uuid.UUID `json:"student_id" binding:"required"`
	PaymentType          string    `json:"payment_type" binding:"required,oneof=Deposit_Only Advance_Only Deposit_Advance Monthly_Rent"`
	Amount               int       `json:"amount" binding:"required,gt=0"`
	PaymentMethod        string    `json:"payment_method" binding:"required,oneof=cash upi bank card"`
	TransactionReference string    `json:"transaction_reference"`
	Remarks              string    `json:"remarks"`
	PaymentDate          time.Time `json:"payment_date"`
}

// CreateFee records a fee payment for a student.
func (h *Handler) CreateFee(c *gin.Context) {
	var req createFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var student model.Student
	if err := h.store.DB().First(&student, "id = ?", req.StudentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up student"})
		return
	}

	fee := model.FeePayment{
		StudentID:            req.StudentID,
		PaymentType:          req.PaymentType,
		Amount:               req.Amount,
		PaymentMethod:        req.PaymentMethod,
		TransactionReference: req.TransactionReference,
		Remarks:              req.Remarks,
		PaymentDate:          req.PaymentDate,
	}
	if err := h.store.DB().Create(&fee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusCreated, fee)
}

// ListFees returns fee payments, optionally filtered by student and payment
// type.
func (h *Handler) ListFees(c *gin.Context) {
	query := h.store.DB().Model(&model.FeePayment{}).Order("payment_date DESC")

	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student_id"})
			return
		}
		query = query.Where("student_id = ?", id)
	}
	if pt := c.Query("payment_type"); pt != "" {
		query = query.Where("payment_type = ?", pt)
	}

	var fees []model.FeePayment
	if err := query.Find(&fees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments"})
		return
	}

	c.JSON(http.StatusOK, fees)
}

type updateFeeRequest struct {
	Amount               *int    `json:"amount"`
	PaymentMethod        *string `json:"payment_method"`
	TransactionReference *string `json:"transaction_reference"`
	Remarks              *string `json:"remarks"`
}

// UpdateFee corrects an existing payment record.
func (h *Handler) UpdateFee(c *gin.Context) {
	feeID, err := uuid.Parse(c.Param("fee_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fee id"})
		return
	}

	var req updateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var fee model.FeePayment
	if err := h.store.DB().First(&fee, "id = ?", feeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up payment"})
		return
	}

	if req.Amount != nil {
		fee.Amount = *req.Amount
	}
	if req.PaymentMethod != nil {
		fee.PaymentMethod = *req.PaymentMethod
	}
	if req.TransactionReference != nil {
		fee.TransactionReference = *req.TransactionReference
	}
	if req.Remarks != nil {
		fee.Remarks = *req.Remarks
	}

	if err := h.store.DB().Save(&fee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	c.JSON(http.StatusOK, fee)
}

// DeleteFee removes a payment record.
func (h *Handler) DeleteFee(c *gin.Context) {
	feeID, err := uuid.Parse(c.Param("fee_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fee id"})
		return
	}

	result := h.store.DB().Delete(&model.FeePayment{}, "id = ?", feeID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
