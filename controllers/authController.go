package controllers

import (
	"net/http"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/middlewares"
	"civic-jharkhand-be/models"
	"civic-jharkhand-be/services"
	"civic-jharkhand-be/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	auth   *services.AuthService
	logger *zap.Logger
}

func NewAuthController(auth *services.AuthService, logger *zap.Logger) *AuthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthController{auth: auth, logger: logger}
}

// RegisterUser handles citizen self-registration
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, ac.logger, bindError(err))
		return
	}

	result, err := ac.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		utils.RespondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// LoginUser handles user login for every role
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, ac.logger, bindError(err))
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.RespondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateWorker lets an admin add a field worker for one category
func (ac *AuthController) CreateWorker(c *gin.Context) {
	var input struct {
		Name             string          `json:"name" binding:"required,max=50"`
		Email            string          `json:"email" binding:"required,email"`
		Password         string          `json:"password" binding:"required,min=6"`
		AssignedCategory models.Category `json:"assignedCategory" binding:"required,category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, ac.logger, bindError(err))
		return
	}

	worker, err := ac.auth.CreateWorker(c.Request.Context(), services.CreateWorkerInput{
		RegisterInput: services.RegisterInput{
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
		},
		AssignedCategory: input.AssignedCategory,
	})
	if err != nil {
		utils.RespondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusCreated, worker)
}

// GetMe returns the authenticated user's profile
func (ac *AuthController) GetMe(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, ac.logger, apperrors.Unauthorized("user not authenticated", nil))
		return
	}

	c.JSON(http.StatusOK, user)
}
