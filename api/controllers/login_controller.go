package controllers

import (
	"net/http"

	"ScreenWatch/api/auth"
	"ScreenWatch/api/models"
	"ScreenWatch/api/security"
	"ScreenWatch/api/utils/formaterror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges operator credentials for a JWT. Only admins may sign in.
func (server *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	user := models.User{Email: req.Email, Password: req.Password}
	user.Prepare()
	if errorMessages := user.Validate("login"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userData, isAdmin, err := server.SignIn(user.Email, user.Password)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}
	if !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "Forbidden",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

func (server *Server) SignIn(email, password string) (map[string]interface{}, bool, error) {
	user, err := (&models.User{}).FindUserByEmail(server.DB, email)
	if err != nil {
		return nil, false, err
	}
	if err := security.VerifyPassword(user.Password, password); err != nil {
		return nil, false, err
	}
	token, err := auth.CreateToken(user.ID)
	if err != nil {
		logger.Error("failed to create token", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, false, err
	}

	userData := map[string]interface{}{
		"token":    token,
		"id":       user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	}
	return userData, user.IsAdmin, nil
}
