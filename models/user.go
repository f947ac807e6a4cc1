package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role decides which operations a user may perform
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleWorker  Role = "worker"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password,omitempty" json:"-"`
	Role             Role               `bson:"role" json:"role"`
	AssignedCategory *Category          `bson:"assignedCategory,omitempty" json:"assignedCategory,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ComparePassword checks candidate against the stored bcrypt hash.
func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// CanActOn reports whether a worker is assigned to category. Admins act on every category.
func (u *User) CanActOn(category Category) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleWorker:
		return u.AssignedCategory != nil && *u.AssignedCategory == category
	}
	return false
}
