package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
)

type createIssueRequest struct {
	StudentID        uuid.UUID `json:"student_id" binding:"required"`
	RoomID           uuid.UUID `json:"room_id" binding:"required"`
	IssueType        string    `json:"issue_type" binding:"required,oneof=water electricity cleaning wifi furniture other"`
	IssueDescription string    `json:"issue_description"`
}

// CreateIssue reports a maintenance problem for a room.
func (h *Handler) CreateIssue(c *gin.Context) {
	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var student model.Student
	if err := h.store.DB().First(&student, "id = ?", req.StudentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	var room model.Room
	if err := h.store.DB().First(&room, "id = ?", req.RoomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	issue := model.RoomIssue{
		StudentID:        req.StudentID,
		RoomID:           req.RoomID,
		IssueType:        req.IssueType,
		IssueDescription: req.IssueDescription,
		ResolutionStatus: "in_progress",
	}
	if err := h.store.DB().Create(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// ListIssues returns reported issues, optionally filtered by room or
// resolution status.
func (h *Handler) ListIssues(c *gin.Context) {
	query := h.store.DB().Model(&model.RoomIssue{}).Order("reported_at DESC")

	if raw := c.Query("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room_id"})
			return
		}
		query = query.Where("room_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("resolution_status = ?", status)
	}

	var issues []model.RoomIssue
	if err := query.Find(&issues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

type updateIssueRequest struct {
	ResolutionStatus string `json:"resolution_status" binding:"required,oneof=in_progress solved not_solved"`
}

// UpdateIssue moves an issue through its resolution states.
func (h *Handler) UpdateIssue(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issue_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	var req updateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var issue model.RoomIssue
	if err := h.store.DB().First(&issue, "id = ?", issueID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up issue"})
		return
	}

	issue.ResolutionStatus = req.ResolutionStatus
	if err := h.store.DB().Save(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, issue)
}
