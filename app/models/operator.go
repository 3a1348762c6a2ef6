package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	OperatorRoleAdmin   = "admin"
	OperatorRoleSupport = "support"
)

// Operator is a staff login for the admin API.
type Operator struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email       string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email"`
	Password    string         `gorm:"type:text" json:"-" validate:"required,min=8"`
	Role        string         `gorm:"type:varchar(50);default:'support'" json:"role" validate:"oneof=admin support"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Operator) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

func CreateOperator(name, email, password, role string) (*Operator, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	o := &Operator{
		Name:     name,
		Email:    email,
		Password: pw,
		Role:     role,
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}

	return o, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPassword verifies if the provided password matches the stored hash.
func (o *Operator) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(password)) == nil
}

// SetPassword hashes and sets a new password for the operator
func (o *Operator) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	o.Password = hashedPassword
	return nil
}
