package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Cole-Dreyer/Restaurant-Reservation/middlewares"
	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Tokens *utils.TokenManager
}

func NewUserController(db *gorm.DB, tokens *utils.TokenManager) *UserController {
	return &UserController{DB: db, Tokens: tokens}
}

// Register -> POST /auth/register. The first account becomes the admin;
// after that only an admin may add staff.
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("name, a valid email and a password of at least 8 characters are required"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// The user count decides who becomes admin, so it is read in the same
	// transaction as the insert.
	var user models.User
	err = uc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}

		role := strings.ToLower(strings.TrimSpace(req.Role))
		if count == 0 {
			role = models.RoleAdmin
		} else {
			claims, err := uc.bearerClaims(c)
			if err != nil {
				return err
			}
			if claims.Role != models.RoleAdmin {
				return utils.Forbidden("admin access required")
			}
			if role == "" {
				role = models.RoleHost
			}
			if role != models.RoleAdmin && role != models.RoleHost {
				return utils.BadRequest("role must be admin or host")
			}
		}

		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return utils.Conflict("Email %s is already registered", email)
		}

		user = models.User{
			Name:     strings.TrimSpace(req.Name),
			Email:    email,
			Password: string(hashed),
			Role:     role,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, user)
}

// Login -> POST /auth/login
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.BadRequest("email and password are required"))
		return
	}

	var user models.User
	err := uc.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, utils.Unauthorized("invalid credentials"))
		return
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, utils.Unauthorized("invalid credentials"))
		return
	}

	token, err := uc.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, gin.H{
		"token":     token,
		"user_role": user.Role,
	})
}

// Logout -> POST /auth/logout
func (uc *UserController) Logout(c *gin.Context) {
	uc.Tokens.Blacklist(c.GetString(middlewares.ContextToken))
	utils.RespondJSON(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile -> GET /auth/profile
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := c.Get(middlewares.ContextUserID)
	if !ok {
		utils.RespondError(c, utils.Unauthorized("unauthorized"))
		return
	}

	var user models.User
	err := uc.DB.WithContext(c.Request.Context()).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, utils.NotFound("User cannot be found."))
		return
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, user)
}

func (uc *UserController) bearerClaims(c *gin.Context) (*utils.CustomClaims, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, utils.Unauthorized("an admin token is required to add staff")
	}
	claims, err := uc.Tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, utils.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}
