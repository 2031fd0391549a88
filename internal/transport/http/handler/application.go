package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jobtracker/internal/app"
	"jobtracker/internal/model"
	"jobtracker/internal/repository"
	"jobtracker/internal/transport/http/middleware"
	"jobtracker/internal/transport/http/response"
)

const dateLayout = "2006-01-02"

type ApplicationHandler struct {
	appService *app.JobApplicationService
}

type CreateApplicationRequest struct {
	Company     string `json:"company" binding:"required,max=100"`
	Role        string `json:"role" binding:"required,max=100"`
	Status      string `json:"status" binding:"omitempty,oneof=APPLIED INTERVIEW OFFER REJECTED"`
	DateApplied string `json:"dateApplied" binding:"omitempty,datetime=2006-01-02"`
	Notes       string `json:"notes" binding:"max=1000"`
}

type UpdateApplicationRequest struct {
	Company     *string `json:"company" binding:"omitempty,max=100"`
	Role        *string `json:"role" binding:"omitempty,max=100"`
	Status      *string `json:"status" binding:"omitempty,oneof=APPLIED INTERVIEW OFFER REJECTED"`
	DateApplied *string `json:"dateApplied" binding:"omitempty,datetime=2006-01-02"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
}

type ApplicationResponse struct {
	ID          uint   `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	DateApplied string `json:"dateApplied"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	UserID      uint   `json:"userId"`
	Username    string `json:"username"`
}

type ApplicationPageResponse struct {
	Content       []ApplicationResponse `json:"content"`
	Page          int                   `json:"page"`
	Size          int                   `json:"size"`
	TotalElements int64                 `json:"totalElements"`
	TotalPages    int                   `json:"totalPages"`
}

func NewApplicationHandler(appService *app.JobApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	params := repository.ListParams{
		Keyword:   c.Query("keyword"),
		Page:      intQuery(c, "page", 0),
		Size:      intQuery(c, "size", 10),
		SortBy:    c.DefaultQuery("sortBy", "dateApplied"),
		Direction: c.DefaultQuery("direction", "desc"),
	}
	if status := c.Query("status"); status != "" {
		params.Status = model.ApplicationStatus(status)
	}

	page, err := h.appService.List(userID, params)
	if err != nil {
		response.FromError(c, err)
		return
	}

	username := c.GetString(middleware.ContextUsernameKey)
	content := make([]ApplicationResponse, 0, len(page.Content))
	for i := range page.Content {
		content = append(content, toApplicationResponse(&page.Content[i], username))
	}
	response.OK(c, ApplicationPageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	})
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	id, err := idParam(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid application id")
		return
	}

	application, err := h.appService.Get(id, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, toApplicationResponse(application, c.GetString(middleware.ContextUsernameKey)))
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	input := app.CreateApplicationInput{
		Company: req.Company,
		Role:    req.Role,
		Status:  model.ApplicationStatus(req.Status),
		Notes:   req.Notes,
	}
	if req.DateApplied != "" {
		date, err := time.Parse(dateLayout, req.DateApplied)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "dateApplied must be formatted as YYYY-MM-DD")
			return
		}
		input.DateApplied = &date
	}

	application, err := h.appService.Create(input, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, toApplicationResponse(application, c.GetString(middleware.ContextUsernameKey)))
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	id, err := idParam(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid application id")
		return
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	input := app.UpdateApplicationInput{
		Company: req.Company,
		Role:    req.Role,
		Notes:   req.Notes,
	}
	if req.Status != nil {
		status := model.ApplicationStatus(*req.Status)
		input.Status = &status
	}
	if req.DateApplied != nil {
		date, err := time.Parse(dateLayout, *req.DateApplied)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "dateApplied must be formatted as YYYY-MM-DD")
			return
		}
		input.DateApplied = &date
	}

	application, err := h.appService.Update(id, input, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, toApplicationResponse(application, c.GetString(middleware.ContextUsernameKey)))
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	id, err := idParam(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid application id")
		return
	}

	if err := h.appService.Delete(id, userID); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Application deleted successfully"})
}

func (h *ApplicationHandler) Statistics(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	stats, err := h.appService.Statistics(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, stats)
}

func (h *ApplicationHandler) RecentActivity(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	events, err := h.appService.RecentActivity(userID, intQuery(c, "limit", 20))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, gin.H{"events": events})
}

func toApplicationResponse(application *model.JobApplication, username string) ApplicationResponse {
	return ApplicationResponse{
		ID:          application.ID,
		Company:     application.Company,
		Role:        application.Role,
		Status:      string(application.Status),
		DateApplied: application.DateApplied.Format(dateLayout),
		Notes:       application.Notes,
		CreatedAt:   application.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   application.UpdatedAt.Format(time.RFC3339),
		UserID:      application.UserID,
		Username:    username,
	}
}

func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
