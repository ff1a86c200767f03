package entity

import (
	"time"

	"github.com/google/uuid"
)

// LeaveRequest is the record produced by the leave request form.
type LeaveRequest struct {
	UUID         string    `json:"uuid" bson:"uuid"`
	TelegramId   int64     `json:"telegram_id" bson:"telegram_id"`
	EmployeeName string    `json:"employee_name" bson:"employee_name"`
	Kind         string    `json:"kind" bson:"kind"`
	StartDate    time.Time `json:"start_date" bson:"start_date"`
	EndDate      time.Time `json:"end_date" bson:"end_date"`
	Reason       string    `json:"reason" bson:"reason"`
	Substitute   string    `json:"substitute" bson:"substitute"`
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

const (
	LeaveVacation = "vacation"
	LeaveSick     = "sick"
	LeaveUnpaid   = "unpaid"
)

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveKinds lists the selectable leave kinds.
func LeaveKinds() []string {
	return []string{LeaveVacation, LeaveSick, LeaveUnpaid}
}

func NewLeaveRequest(telegramId int64) *LeaveRequest {
	return &LeaveRequest{
		UUID:       uuid.NewString(),
		TelegramId: telegramId,
		Status:     LeavePending,
		CreatedAt:  time.Now(),
	}
}

// Days returns the inclusive length of the leave in days.
func (l *LeaveRequest) Days() int {
	if l.EndDate.Before(l.StartDate) {
		return 0
	}
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// IsPending checks if the request still awaits a decision.
func (l *LeaveRequest) IsPending() bool {
	return l.Status == LeavePending
}
