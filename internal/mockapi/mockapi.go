// Package mockapi serves a small keyed user API for demos and tests.
// It is the default upstream of the rest adapter.
package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// DefaultKey is the API key the demo setup uses end to end.
const DefaultKey = "demo-secret-key"

// User mirrors the rest adapter's wire shape.
type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Region     string `json:"region"`
	SignupDate string `json:"signup_date"`
}

// DemoUsers overlaps the sql and file demo sets on id and email so
// merged queries show multi-source rows.
var DemoUsers = []User{
	{ID: 1, Name: "Alice", Email: "alice@example.com", Region: "NA", SignupDate: "2024-12-01"},
	{ID: 2, Name: "Bob", Email: "bob@example.com", Region: "EU", SignupDate: "2024-12-15"},
	{ID: 6, Name: "Dave", Email: "dave@example.com", Region: "LATAM", SignupDate: "2025-02-01"},
	{ID: 7, Name: "Erin", Email: "erin@example.com", Region: "EU", SignupDate: "2025-01-28"},
}

// NewRouter builds the API. Every route requires the x-api-key header
// to equal key.
func NewRouter(key string, users []User) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requireKey(key))

	r.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, users)
	})
	r.GET("/users/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		for _, u := range users {
			if u.ID == id {
				c.JSON(http.StatusOK, u)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	})
	return r
}

func requireKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("x-api-key") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}
		c.Next()
	}
}
