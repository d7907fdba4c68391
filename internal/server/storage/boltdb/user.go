package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
)

// userRecord is the stored form of models.User, which hides ID and
// timestamps from its API JSON.
type userRecord struct {
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	ID           int64      `json:"id"`
}

func toRecord(u *models.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Email:        r.Email,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FindByUsername retrieves user by username
func (s *Storage) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUsernames).Get([]byte(username))
		if id == nil {
			return storage.ErrUserNotFound
		}

		var err error
		user, err = getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindByID retrieves user by ID
func (s *Storage) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = getUser(tx, itob(id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Save inserts a new user (ID == 0) or updates an existing one
func (s *Storage) Save(ctx context.Context, user *models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		names := tx.Bucket(bucketUsernames)

		// Username занят другим пользователем
		if owner := names.Get([]byte(user.Username)); owner != nil && btoi(owner) != user.ID {
			return storage.ErrUserAlreadyExists
		}

		id := user.ID
		if id == 0 {
			seq, err := users.NextSequence()
			if err != nil {
				return fmt.Errorf("failed to allocate user id: %w", err)
			}
			id = int64(seq)
		} else {
			current, err := getUser(tx, itob(id))
			if err != nil {
				return err
			}
			if current.Username != user.Username {
				if err := names.Delete([]byte(current.Username)); err != nil {
					return fmt.Errorf("failed to drop username index: %w", err)
				}
			}
		}

		rec := toRecord(user)
		rec.ID = id

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		if err := users.Put(itob(id), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := names.Put([]byte(user.Username), itob(id)); err != nil {
			return fmt.Errorf("failed to index username: %w", err)
		}

		user.ID = id
		return nil
	})
}

// DeleteByID deletes user by ID
func (s *Storage) DeleteByID(ctx context.Context, id int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		user, err := getUser(tx, itob(id))
		if err != nil {
			return err
		}

		if err := tx.Bucket(bucketUsernames).Delete([]byte(user.Username)); err != nil {
			return fmt.Errorf("failed to drop username index: %w", err)
		}
		if err := tx.Bucket(bucketUsers).Delete(itob(id)); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// ExistsByID reports whether a user with the given ID exists
func (s *Storage) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		exists = tx.Bucket(bucketUsers).Get(itob(id)) != nil
		return nil
	})
	return exists, err
}

// Count returns the number of users
func (s *Storage) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	return n, err
}

func getUser(tx *bbolt.Tx, key []byte) (*models.User, error) {
	data := tx.Bucket(bucketUsers).Get(key)
	if data == nil {
		return nil, storage.ErrUserNotFound
	}

	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return rec.toModel(), nil
}
