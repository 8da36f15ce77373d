package db

import (
	"gorm.io/gorm"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/models"
)

// Explicit query helpers. Relations are resolved on demand by ID instead of
// preloading object graphs onto the models.

// FindUserByEmail does an exact-match lookup; email is unique in storage.
func FindUserByEmail(conn *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := conn.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindCafesByAuthor lists all cafes created by a user.
func FindCafesByAuthor(conn *gorm.DB, authorID uint) ([]models.Cafe, error) {
	var cafes []models.Cafe
	err := conn.Where("author_id = ?", authorID).Order("id").Find(&cafes).Error
	return cafes, err
}

// FindCommentsByCafe lists a cafe's comments oldest first, each paired with
// its author's display name.
func FindCommentsByCafe(conn *gorm.DB, cafeID uint) ([]CommentWithAuthor, error) {
	var rows []CommentWithAuthor
	err := conn.Model(&models.Comment{}).
		Select("comments.id, comments.text, comments.author_id, comments.cafe_id, comments.created_at, users.name AS author_name").
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.cafe_id = ?", cafeID).
		Order("comments.id").
		Scan(&rows).Error
	return rows, err
}

// CommentWithAuthor is a read model for the detail view.
type CommentWithAuthor struct {
	ID         uint
	Text       string
	AuthorID   uint
	CafeID     uint
	AuthorName string
}

// DeleteCafe removes a cafe and every comment referencing it in one
// transaction, so concurrent readers never observe a dangling cafe_id.
func DeleteCafe(conn *gorm.DB, cafeID uint) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cafe_id = ?", cafeID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cafe{}, cafeID).Error
	})
}
