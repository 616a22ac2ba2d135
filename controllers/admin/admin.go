package adminController

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tahirfruitchaat/pos-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	PIN      string `json:"pin"`
}

type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Site     string `json:"site"`
	PIN      string `json:"pin"`
}

// HashPassword is the stored form of user passwords.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func issueJWT(username string, role models.Role) string {
	claims := jwt.MapClaims{
		"username": username,
		"role":     string(role),
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return ""
	}
	return signedToken
}

// POST /login
// Superadmins log in with username+password; admins additionally supply
// their PIN. A successful login stamps LastLogin and records an activity
// row.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if !passwordMatches(user.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if user.Role == models.RoleAdmin && (user.PIN == "" || req.PIN != user.PIN) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		now := time.Now()
		db.Model(&user).Update("last_login", now)
		db.Create(&models.ActivityLog{
			Username:  user.Username,
			Role:      user.Role,
			Action:    "login",
			CreatedAt: now,
		})

		token := issueJWT(user.Username, user.Role)
		if token == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"user":    user,
		})
	}
}

// POST /logout (JWT-protected)
func Logout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		usernameVal, exists := c.Get("terminal_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		username, _ := usernameVal.(string)

		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		now := time.Now()
		db.Model(&user).Update("last_logout", now)
		db.Create(&models.ActivityLog{
			Username:  user.Username,
			Role:      user.Role,
			Action:    "logout",
			CreatedAt: now,
		})

		c.JSON(http.StatusOK, gin.H{"message": "Logout recorded"})
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("username").Find(&users).Error; err != nil {
			log.Println("❌ Failed to fetch users:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// POST /admin/users
func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		role := models.Role(input.Role)
		if role != models.RoleAdmin && role != models.RoleSuperadmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		if role == models.RoleAdmin && input.PIN == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admins require a PIN"})
			return
		}

		passwordHash, err := HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		user := models.User{
			Username:     input.Username,
			PasswordHash: passwordHash,
			Role:         role,
			Site:         input.Site,
			PIN:          input.PIN,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// DELETE /admin/users/:userID
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("userID")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userID"})
			return
		}
		result := db.Delete(&models.User{}, uint(id))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}

// GET /admin/activity?limit=50 — newest first. The admin screen polls this
// on a fixed interval.
func GetActivityLog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if limit < 1 || limit > 500 {
			limit = 50
		}

		var entries []models.ActivityLog
		if err := db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// SeedSuperadmin creates the initial superadmin account on an empty users
// table. Password comes from SUPERADMIN_PASSWORD.
func SeedSuperadmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("SUPERADMIN_PASSWORD")
	if password == "" {
		return errors.New("SUPERADMIN_PASSWORD must be set to seed the first user")
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     "superadmin",
		PasswordHash: passwordHash,
		Role:         models.RoleSuperadmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Println("✅ Seeded initial superadmin user")
	return nil
}
