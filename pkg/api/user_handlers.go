package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/example/shopmate/pkg/auth"
	"github.com/example/shopmate/pkg/models"
	"github.com/example/shopmate/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) signin(c *gin.Context) {
	var req signinRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	user, err := s.deps.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"message": "It appears this account has been blocked by Admin"})
		return
	}

	s.userTokenResponse(c, http.StatusOK, user)
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}
		s.storeError(c, err, "User Not Found")
		return
	}

	s.userTokenResponse(c, http.StatusCreated, user)
}

func (s *Server) userTokenResponse(c *gin.Context, status int, user *models.User) {
	token, err := s.deps.Tokens.Issue(user)
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}
	c.JSON(status, gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"isAdmin":   user.IsAdmin,
		"isSeller":  user.IsSeller,
		"isBlocked": user.IsBlocked,
		"token":     token,
	})
}

func (s *Server) topSellers(c *gin.Context) {
	users, err := s.deps.Users.List(c.Request.Context())
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}

	var sellers []models.User
	for _, user := range users {
		if user.IsSeller {
			sellers = append(sellers, user)
		}
	}
	sort.Slice(sellers, func(i, j int) bool {
		return sellers[i].Seller.Rating > sellers[j].Seller.Rating
	})
	if len(sellers) > 3 {
		sellers = sellers[:3]
	}
	c.JSON(http.StatusOK, sellers)
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.deps.Users.List(c.Request.Context())
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.deps.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Image             string `json:"image"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	Country           string `json:"country"`
	Password          string `json:"password"`
	SellerName        string `json:"sellerName"`
	SellerLogo        string `json:"sellerLogo"`
	SellerDescription string `json:"sellerDescription"`
}

func (s *Server) updateProfile(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req updateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	user, err := s.deps.Users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	user.Address = req.Address
	user.Country = req.Country
	if req.Image != "" {
		user.Image = req.Image
	}
	if user.IsSeller {
		if req.SellerName != "" {
			user.Seller.Name = req.SellerName
		}
		if req.SellerLogo != "" {
			user.Seller.Logo = req.SellerLogo
		}
		if req.SellerDescription != "" {
			user.Seller.Description = req.SellerDescription
		}
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.storeError(c, err, "User Not Found")
			return
		}
		user.Password = string(hash)
	}
	user.UpdatedAt = time.Now()

	if err := s.deps.Users.Update(c.Request.Context(), user); err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}
	s.userTokenResponse(c, http.StatusOK, user)
}

type adminUpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Country  string `json:"country"`
	Image    string `json:"image"`
	IsAdmin  bool   `json:"isAdmin"`
	IsSeller bool   `json:"isSeller"`
}

func (s *Server) updateUser(c *gin.Context) {
	var req adminUpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "invalid_request", "message": err.Error()})
		return
	}

	user, err := s.deps.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	user.Address = req.Address
	user.Country = req.Country
	if req.Image != "" {
		user.Image = req.Image
	}
	user.IsAdmin = req.IsAdmin
	user.IsSeller = req.IsSeller
	user.UpdatedAt = time.Now()

	if err := s.deps.Users.Update(c.Request.Context(), user); err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User Updated Successfully", "user": user})
}

func (s *Server) deleteUser(c *gin.Context) {
	user, err := s.deps.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}
	if user.IsAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Can Not Delete Admin User"})
		return
	}
	if err := s.deps.Users.Delete(c.Request.Context(), user.ID); err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User Deleted Successfully"})
}

func (s *Server) blockUser(c *gin.Context) {
	s.setUserBlocked(c, true)
}

func (s *Server) unblockUser(c *gin.Context) {
	s.setUserBlocked(c, false)
}

func (s *Server) setUserBlocked(c *gin.Context, blocked bool) {
	id := c.Param("id")
	if blocked {
		target, err := s.deps.Users.GetByID(c.Request.Context(), id)
		if err != nil {
			s.storeError(c, err, "User Not Found")
			return
		}
		if target.IsAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Can Not Block This Admin User"})
			return
		}
	}

	user, err := s.deps.Users.SetBlocked(c.Request.Context(), id, blocked)
	if err != nil {
		s.storeError(c, err, "User Not Found")
		return
	}
	c.JSON(http.StatusOK, user)
}
