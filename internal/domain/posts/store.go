package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// List returns posts newest first.
func List(ctx context.Context, db *gorm.DB, limit, offset int) ([]Post, error) {
	var out []Post
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

func ListByUser(ctx context.Context, db *gorm.DB, userID uint) ([]Post, error) {
	var out []Post
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list posts of user %d: %w", userID, err)
	}
	return out, nil
}

func Get(ctx context.Context, db *gorm.DB, id string) (*Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var p Post
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return &p, nil
}

func Create(ctx context.Context, db *gorm.DB, p *Post) error {
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// UpdateContent changes title and description of a post owned by userID.
func UpdateContent(ctx context.Context, db *gorm.DB, id string, userID uint, c Content) (*Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var p Post
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwned(tx, id, userID, &p); err != nil {
			return err
		}
		return tx.Model(&p).Updates(map[string]interface{}{
			"title":       c.Title,
			"description": c.Description,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	p.Title = c.Title
	p.Description = c.Description
	return &p, nil
}

// Delete removes a post owned by userID and returns the deleted row so the
// caller can clean up its image.
func Delete(ctx context.Context, db *gorm.DB, id string, userID uint) (*Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var p Post
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwned(tx, id, userID, &p); err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func lockOwned(tx *gorm.DB, id string, userID uint, p *Post) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load post %s: %w", id, err)
	}
	if !p.OwnedBy(userID) {
		return ErrForbidden
	}
	return nil
}
