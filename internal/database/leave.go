package repository

import (
	"StaffDesk/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// SaveLeaveRequest inserts a new leave request.
func (m *MongoDB) SaveLeaveRequest(ctx context.Context, request *entity.LeaveRequest) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(leaveRequestsCollection)

	_, err = collection.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("mongodb insert error: %w", err)
	}

	return nil
}

// SetLeaveStatus updates the status of one leave request.
func (m *MongoDB) SetLeaveStatus(ctx context.Context, uuid, status string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(leaveRequestsCollection)

	filter := bson.D{{Key: "uuid", Value: uuid}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("leave request %s not found", uuid)
	}

	return nil
}

// ListLeaveRequests returns leave requests, optionally filtered by status.
func (m *MongoDB) ListLeaveRequests(ctx context.Context, status string) ([]*entity.LeaveRequest, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(leaveRequestsCollection)

	filter := bson.D{}
	if status != "" {
		filter = bson.D{{Key: "status", Value: status}}
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []*entity.LeaveRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}

	return requests, nil
}
