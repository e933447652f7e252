package skill

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
)

// CreateSkill allows a member to list a new skill they can teach
func CreateSkill(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Rate        int      `json:"rate"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "skill name is required"})
	}
	if req.Category == "" {
		req.Category = "education"
	}
	if req.Rate <= 0 {
		req.Rate = 1
	}

	skillID := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO skills (id, member_id, name, description, category, rate, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, skillID, uid, req.Name, req.Description, req.Category, req.Rate, req.Latitude, req.Longitude)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create skill"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"skill_id": skillID})
}

// GetMySkills returns the authenticated member's own listings
func GetMySkills(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, member_id, name, description, category, rate, rating, latitude, longitude, created_at
		FROM skills WHERE member_id = $1 ORDER BY created_at DESC
	`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch skills"})
	}
	defer rows.Close()

	skills, err := scanSkills(rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
	}

	return c.JSON(http.StatusOK, echo.Map{"skills": skills})
}

// SearchSkills performs a substring search over skill names.
func SearchSkills(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, member_id, name, description, category, rate, rating, latitude, longitude, created_at
		FROM skills WHERE name ILIKE '%' || $1 || '%' ORDER BY created_at DESC LIMIT 100
	`, query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to search skills"})
	}
	defer rows.Close()

	skills, err := scanSkills(rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
	}

	return c.JSON(http.StatusOK, echo.Map{"skills": skills})
}

// DeleteSkill removes a listing. Only the owner may delete, and the database
// cascades the delete to dependent requests, sessions and messages.
func DeleteSkill(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	skillID := c.Param("id")
	if skillID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing skill id"})
	}

	res, err := db.Conn.Exec(context.Background(),
		`DELETE FROM skills WHERE id = $1 AND member_id = $2`, skillID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete skill"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "skill not found or not yours"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "skill deleted"})
}
