package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// HandleInviteUser creates a pending user in the caller's organization with a
// one-time invite token. Delivery of the invite is handled outside this
// service; the token is returned so the admin can pass it on.
// POST /api/v1/admin/users/invite
func HandleInviteUser(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)

	var req models.InviteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.Email == "" || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Name and email are required"})
	}
	role, ok := utils.ValidateAndNormalizeRole(req.Role)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Role must be admin, planner, or viewer"})
	}

	// The account starts with a random password; the invitee sets their own
	// when redeeming the token.
	inviteToken := uuid.NewString()
	tempPassword := uuid.NewString()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing temp password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not process invite"})
	}

	query := `
        INSERT INTO users (org_id, name, email, password_hash, role, invite_token, invited_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, org_id, name, email, role, is_active, invite_token, invited_at, created_at, updated_at
    `

	var user models.User
	err = db.QueryRow(ctx, query, orgID, req.Name, req.Email, string(hashedPassword), role, inviteToken).Scan(
		&user.ID, &user.OrgID, &user.Name, &user.Email, &user.Role, &user.IsActive,
		&user.InviteToken, &user.InvitedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error inviting user %s to org %s: %v", req.Email, orgID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": fmt.Sprintf("Could not invite user: %v", err)})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": user})
}

// HandleGetUsers fetches a paginated and filtered list of the org's users.
// GET /api/v1/admin/users
func HandleGetUsers(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "10"))
	page, pageSize = utils.ClampPageParams(page, pageSize)
	role := c.Query("role")
	isActiveStr := c.Query("is_active")
	searchTerm := c.Query("q")

	whereClauses := []string{"org_id = $1"}
	args := []interface{}{orgID}
	argCount := 2

	if role != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("role = $%d", argCount))
		args = append(args, role)
		argCount++
	}
	if isActiveStr != "" {
		if isActive, err := strconv.ParseBool(isActiveStr); err == nil {
			whereClauses = append(whereClauses, fmt.Sprintf("is_active = $%d", argCount))
			args = append(args, isActive)
			argCount++
		}
	}
	if searchTerm != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+searchTerm+"%")
		argCount++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := "SELECT COUNT(*) FROM users " + whereClause
	var totalItems int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&totalItems); err != nil {
		log.Printf("Error counting users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count users"})
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(
		"SELECT id, org_id, name, email, role, is_active, created_at, updated_at FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		whereClause, argCount, argCount+1)
	args = append(args, pageSize, offset)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch users"})
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.OrgID, &user.Name, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			log.Printf("Error scanning user row: %v", err)
			continue
		}
		users = append(users, user)
	}

	return c.JSON(models.PaginatedUsersResponse{
		Data:       users,
		Pagination: utils.CreatePagination(totalItems, page, pageSize),
	})
}

// HandleUpdateUserRole changes a user's role within the org.
// PUT /api/v1/admin/users/:userId/role
func HandleUpdateUserRole(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)
	userID := c.Params("userId")

	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	role, ok := utils.ValidateAndNormalizeRole(body.Role)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Role must be admin, planner, or viewer"})
	}

	// An admin cannot demote themselves; that risks locking the org out.
	if userID == c.Locals("userID").(string) && role != "admin" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot change your own admin role"})
	}

	commandTag, err := db.Exec(ctx,
		"UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 AND org_id = $3",
		role, userID, orgID)
	if err != nil {
		log.Printf("Error updating role for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update role"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "User not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Role updated"})
}

// HandleSetUserStatus activates or deactivates a user account.
// PUT /api/v1/admin/users/:userId/status
func HandleSetUserStatus(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)
	userID := c.Params("userId")

	var body struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	if userID == c.Locals("userID").(string) && !body.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot deactivate your own account"})
	}

	commandTag, err := db.Exec(ctx,
		"UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2 AND org_id = $3",
		body.IsActive, userID, orgID)
	if err != nil {
		log.Printf("Error setting status for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update status"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "User not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Status updated"})
}

// HandleDeleteUser removes a user from the organization.
// DELETE /api/v1/admin/users/:userId
func HandleDeleteUser(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)
	userID := c.Params("userId")

	if userID == c.Locals("userID").(string) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot delete your own account"})
	}

	commandTag, err := db.Exec(ctx, "DELETE FROM users WHERE id = $1 AND org_id = $2", userID, orgID)
	if err != nil {
		log.Printf("Error deleting user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete user"})
	}
	if commandTag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "User not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "User deleted"})
}

// HandleGetUserByID fetches a single user in the org.
// GET /api/v1/admin/users/:userId
func HandleGetUserByID(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	orgID := c.Locals("orgID").(string)
	userID := c.Params("userId")

	var user models.User
	err := db.QueryRow(ctx,
		"SELECT id, org_id, name, email, role, is_active, created_at, updated_at FROM users WHERE id = $1 AND org_id = $2",
		userID, orgID).Scan(
		&user.ID, &user.OrgID, &user.Name, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "User not found"})
		}
		log.Printf("Error fetching user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": user})
}
