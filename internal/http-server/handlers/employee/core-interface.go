package employee

import (
	"StaffDesk/entity"
	"context"
)

type Core interface {
	ListEmployees(ctx context.Context, department string) ([]*entity.Employee, error)
}
