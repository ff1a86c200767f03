package leave

import (
	"StaffDesk/entity"
	"context"
)

type Core interface {
	ListLeaveRequests(ctx context.Context, status string) ([]*entity.LeaveRequest, error)
	DecideLeave(ctx context.Context, uuid, status string) error
}
