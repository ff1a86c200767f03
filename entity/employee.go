package entity

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the record produced by the employee intake form.
type Employee struct {
	UUID             string    `json:"uuid" bson:"uuid"`
	TelegramId       int64     `json:"telegram_id" bson:"telegram_id"`
	FullName         string    `json:"full_name" bson:"full_name" validate:"required"`
	Email            string    `json:"email" bson:"email" validate:"required,email"`
	Phone            string    `json:"phone" bson:"phone" validate:"omitempty"`
	Position         string    `json:"position" bson:"position"`
	Department       string    `json:"department" bson:"department"`
	StartDate        time.Time `json:"start_date" bson:"start_date"`
	Remote           bool      `json:"remote" bson:"remote"`
	Equipment        []string  `json:"equipment" bson:"equipment"`
	EmergencyContact string    `json:"emergency_contact" bson:"emergency_contact"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

const (
	DepartmentEngineering = "Engineering"
	DepartmentSales       = "Sales"
	DepartmentMarketing   = "Marketing"
	DepartmentFinance     = "Finance"
	DepartmentOperations  = "Operations"
)

// Departments lists the selectable departments in display order.
func Departments() []string {
	return []string{
		DepartmentEngineering,
		DepartmentSales,
		DepartmentMarketing,
		DepartmentFinance,
		DepartmentOperations,
	}
}

func NewEmployee(telegramId int64) *Employee {
	return &Employee{
		UUID:       uuid.NewString(),
		TelegramId: telegramId,
		CreatedAt:  time.Now(),
	}
}

// Started reports whether the employee's first day has passed.
func (e *Employee) Started() bool {
	return !e.StartDate.IsZero() && !time.Now().Before(e.StartDate)
}
