package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

type ClassLevel string

const (
	Class11  ClassLevel = "11th"
	Class12  ClassLevel = "12th"
	Dropper  ClassLevel = "Dropper"
	Graduate ClassLevel = "Graduate"
)

// swagger:model User
type User struct {
	BaseModel
	Username    string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	FullName    string     `gorm:"size:100" json:"fullName"`
	Email       string     `gorm:"size:100" json:"email,omitempty"`
	Class       ClassLevel `gorm:"size:16" json:"class,omitempty"`
	TargetExams []string   `gorm:"serializer:json" json:"targetExam,omitempty"`
	Role        UserRole   `gorm:"size:16;default:'student'" json:"role"`
	LastLogin   time.Time  `json:"lastLogin"`
	LastSeen    time.Time  `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

var ClassLevels = []ClassLevel{Class11, Class12, Dropper, Graduate}

var TargetExams = []string{"JEE Main", "JEE Advanced", "NEET", "CUET", "NDA", "Other"}

func ValidClass(c ClassLevel) bool {
	for _, v := range ClassLevels {
		if v == c {
			return true
		}
	}
	return false
}

func ValidTargetExam(exam string) bool {
	for _, v := range TargetExams {
		if v == exam {
			return true
		}
	}
	return false
}
