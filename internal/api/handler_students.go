package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
)

type createStudentRequest struct {
	Name           string `json:"name" binding:"required"`
	MobileNumber   string `json:"mobile_number" binding:"required"`
	AadharNumber   string `json:"aadhar_number"`
	Address        string `json:"address"`
	EmergencyName  string `json:"emergency_name"`
	EmergencyPhone string `json:"emergency_phone"`
}

// CreateStudent registers a student. Students start unallocated; beds are
// assigned through the allocations API only.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student := model.Student{
		Name:           req.Name,
		MobileNumber:   req.MobileNumber,
		AadharNumber:   req.AadharNumber,
		Address:        req.Address,
		EmergencyName:  req.EmergencyName,
		EmergencyPhone: req.EmergencyPhone,
	}
	if err := h.store.DB().Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student"})
		return
	}
	c.JSON(http.StatusCreated, student)
}

// ListStudents handles GET /api/students.
func (h *Handler) ListStudents(c *gin.Context) {
	var students []model.Student
	if err := h.store.DB().Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve students"})
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudent returns a student along with their live allocation, derived
// from the allocation relation rather than a denormalized field.
func (h *Handler) GetStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	var student model.Student
	if err := h.store.DB().First(&student, "id = ?", studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve student"})
		return
	}

	var alloc model.Allocation
	resp := gin.H{"student": student}
	err = h.store.DB().Where("student_id = ?", studentID).First(&alloc).Error
	switch err {
	case nil:
		resp["allocation"] = alloc
	case gorm.ErrRecordNotFound:
		resp["allocation"] = nil
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve allocation"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteStudent removes a student; any live allocation is released through
// the same path Deallocate uses, and the freed room is dispatched for
// notification.
func (h *Handler) DeleteStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	freedRoom, err := h.store.DeleteStudent(c.Request.Context(), studentID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if freedRoom != nil && h.pool != nil {
		h.pool.Dispatch(*freedRoom)
	}

	c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
}
